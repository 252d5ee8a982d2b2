package apierrors

const (
	MsgInvalidTaskID          = "invalidTaskID"
	MsgInvalidTaskPayload     = "invalidTaskPayload"
	MsgTaskNotFound           = "taskNotFound"
	MsgApplicationNotFound    = "applicationNotFound"
	MsgAssetNotFound          = "assetNotFound"
	MsgValidationFailed       = "validationFailed"
	MsgInvalidTransition      = "invalidTransition"
	MsgNotAuthorized          = "notAuthorized"
	MsgMissingActor           = "missingActor"
	MsgDuplicateApplication   = "duplicateApplication"
	MsgDuplicateRating        = "duplicateRating"
	MsgNotAcceptingApplicants = "notAcceptingApplications"
	MsgTaskNotCompleted       = "taskNotCompleted"
	MsgInvalidRating          = "invalidRating"
	MsgConcurrentModification = "concurrentModification"
	MsgInternalError          = "internalError"
)
