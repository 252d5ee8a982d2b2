package domain

type TaskStage string

const (
	StageCancelled        TaskStage = "cancelled"
	StageDraft            TaskStage = "draft"
	StagePublished        TaskStage = "published"
	StageCollecting       TaskStage = "collecting"
	StageEvaluating       TaskStage = "evaluating"
	StageInProgress       TaskStage = "in_progress"
	StageReviewing        TaskStage = "reviewing"
	StageRevisionRequired TaskStage = "revision_required"
	StagePublishing       TaskStage = "publishing"
	StageCompleted        TaskStage = "completed"
)

// StageDefinition is the static metadata for one lifecycle stage. The
// transition graph lives here and nowhere else; every status change goes
// through CanTransition.
type StageDefinition struct {
	Stage       TaskStage
	Order       int
	EditorRoles []Role
	Next        []TaskStage
}

var stageTable = map[TaskStage]StageDefinition{
	StageCancelled: {
		Stage: StageCancelled,
		Order: 0,
	},
	StageDraft: {
		Stage:       StageDraft,
		Order:       1,
		EditorRoles: []Role{RoleSupplier},
		Next:        []TaskStage{StagePublished},
	},
	StagePublished: {
		Stage:       StagePublished,
		Order:       2,
		EditorRoles: []Role{RoleSupplier, RoleCreator},
		Next:        []TaskStage{StageCollecting},
	},
	StageCollecting: {
		Stage:       StageCollecting,
		Order:       3,
		EditorRoles: []Role{RoleSupplier, RoleCreator},
		Next:        []TaskStage{StageEvaluating, StageInProgress, StageCancelled},
	},
	StageEvaluating: {
		Stage:       StageEvaluating,
		Order:       4,
		EditorRoles: []Role{RoleSupplier},
		Next:        []TaskStage{StageInProgress, StageCancelled},
	},
	StageInProgress: {
		Stage:       StageInProgress,
		Order:       5,
		EditorRoles: []Role{RoleCreator},
		Next:        []TaskStage{StageReviewing, StageCancelled},
	},
	StageReviewing: {
		Stage:       StageReviewing,
		Order:       6,
		EditorRoles: []Role{RoleSupplier},
		Next:        []TaskStage{StagePublishing, StageRevisionRequired, StageInProgress},
	},
	StageRevisionRequired: {
		Stage:       StageRevisionRequired,
		Order:       7,
		EditorRoles: []Role{RoleCreator},
		Next:        []TaskStage{StageInProgress},
	},
	StagePublishing: {
		Stage:       StagePublishing,
		Order:       8,
		EditorRoles: []Role{RoleSupplier, RoleMedia},
		Next:        []TaskStage{StageCompleted},
	},
	StageCompleted: {
		Stage:       StageCompleted,
		Order:       9,
		EditorRoles: []Role{RoleSupplier, RoleCreator},
	},
}

// totalActiveStages counts every stage that participates in the forward
// lifecycle (order > 0); cancelled does not contribute to progress.
const totalActiveStages = 9

// AllStages returns the stage definitions ordered by display order.
func AllStages() []StageDefinition {
	stages := make([]StageDefinition, 0, len(stageTable))
	for order := 0; order <= totalActiveStages; order++ {
		for _, def := range stageTable {
			if def.Order == order {
				stages = append(stages, def)
			}
		}
	}
	return stages
}

// StageDef looks up a stage definition; ok is false for unknown stages.
func StageDef(stage TaskStage) (StageDefinition, bool) {
	def, ok := stageTable[stage]
	return def, ok
}

// ValidStage reports whether the given value names a known stage.
func ValidStage(stage TaskStage) bool {
	_, ok := stageTable[stage]
	return ok
}

// CanTransition reports whether to is a legal successor of from. A stage is
// never its own successor, so repeated requests for the same transition fail.
func CanTransition(from, to TaskStage) bool {
	def, ok := stageTable[from]
	if !ok {
		return false
	}
	for _, next := range def.Next {
		if next == to {
			return true
		}
	}
	return false
}

// NextStages returns the legal successors of the given stage.
func NextStages(stage TaskStage) []TaskStage {
	def, ok := stageTable[stage]
	if !ok {
		return nil
	}
	next := make([]TaskStage, len(def.Next))
	copy(next, def.Next)
	return next
}

// ProgressPercent converts a stage's display order into a completion
// percentage. Cancelled reports zero.
func ProgressPercent(stage TaskStage) float64 {
	def, ok := stageTable[stage]
	if !ok || def.Order == 0 {
		return 0
	}
	return float64(def.Order) / float64(totalActiveStages) * 100
}

// StageEditableBy reports whether the role may act as editor while a task is
// in the given stage.
func StageEditableBy(stage TaskStage, role Role) bool {
	def, ok := stageTable[stage]
	if !ok {
		return false
	}
	for _, r := range def.EditorRoles {
		if r == role {
			return true
		}
	}
	return false
}
