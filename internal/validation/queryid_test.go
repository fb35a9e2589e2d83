package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQueryID(t *testing.T) {
	tests := []struct {
		name    string
		queryID string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid - letters",
			queryID: "todoItems",
		},
		{
			name:    "valid - digits first",
			queryID: "1query",
		},
		{
			name:    "valid - underscore and hyphen",
			queryID: "my_query-2",
		},
		{
			name:    "valid - max length",
			queryID: "a" + strings.Repeat("b", 127), // 128 символов
		},
		{
			name:    "invalid - empty",
			queryID: "",
			wantErr: true,
			errMsg:  "query id cannot be empty",
		},
		{
			name:    "invalid - too long",
			queryID: strings.Repeat("a", 129),
			wantErr: true,
			errMsg:  "must not exceed 128 characters",
		},
		{
			name:    "invalid - leading pipe",
			queryID: "|query",
			wantErr: true,
			errMsg:  "must start with a letter or digit",
		},
		{
			name:    "invalid - leading underscore",
			queryID: "_query",
			wantErr: true,
		},
		{
			name:    "invalid - punctuation",
			queryID: "query.one",
			wantErr: true,
		},
		{
			name:    "invalid - whitespace",
			queryID: "query one",
			wantErr: true,
		},
		{
			name:    "invalid - delta token separator",
			queryID: "a|b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueryID(tt.queryID)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}
			assert.NoError(t, err)
		})
	}
}
