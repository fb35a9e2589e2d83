package models

// Source указывает, кто инициировал изменение локального хранилища.
type Source int

const (
	SourceLocal Source = iota
	SourceServerPull
	SourceServerPush
	SourceLocalConflictResolution
)

func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceServerPull:
		return "server_pull"
	case SourceServerPush:
		return "server_push"
	case SourceLocalConflictResolution:
		return "local_conflict_resolution"
	default:
		return "unknown"
	}
}

// TrackingOptions is a bitmask selecting which notifications are emitted for which source.
type TrackingOptions int

const (
	TrackingNone TrackingOptions = 0

	NotifyLocalOperations TrackingOptions = 1 << iota
	NotifyLocalConflictResolutionOperations
	NotifyServerPullOperations
	NotifyServerPushOperations
	NotifyLocalBatch
	NotifyServerPullBatch
	NotifyServerPushBatch
	// DetectRecordChanges suppresses per-operation notifications for server
	// upserts that do not change the stored record version.
	DetectRecordChanges

	NotifyLocalAndServerOperations = NotifyLocalOperations | NotifyLocalConflictResolutionOperations |
		NotifyServerPullOperations | NotifyServerPushOperations
	NotifyServerBatches = NotifyServerPullBatch | NotifyServerPushBatch

	DefaultTrackingOptions = NotifyLocalAndServerOperations | NotifyLocalBatch | NotifyServerBatches | DetectRecordChanges
)

// Has reports whether all bits of flag are set.
func (o TrackingOptions) Has(flag TrackingOptions) bool {
	return flag != 0 && o&flag == flag
}

// NotifiesOperations reports whether per-operation notifications are enabled for source.
func (o TrackingOptions) NotifiesOperations(source Source) bool {
	switch source {
	case SourceLocal:
		return o.Has(NotifyLocalOperations)
	case SourceLocalConflictResolution:
		return o.Has(NotifyLocalConflictResolutionOperations)
	case SourceServerPull:
		return o.Has(NotifyServerPullOperations)
	case SourceServerPush:
		return o.Has(NotifyServerPushOperations)
	}
	return false
}

// NotifiesBatch reports whether batch notifications are enabled for source.
func (o TrackingOptions) NotifiesBatch(source Source) bool {
	switch source {
	case SourceLocal, SourceLocalConflictResolution:
		return o.Has(NotifyLocalBatch)
	case SourceServerPull:
		return o.Has(NotifyServerPullBatch)
	case SourceServerPush:
		return o.Has(NotifyServerPushBatch)
	}
	return false
}

// TrackingContext описывает область отслеживания изменений хранилища.
type TrackingContext struct {
	TrackingID string
	Source     Source
	Options    TrackingOptions
}
