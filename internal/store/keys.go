package store

// Record keys. Each key holds one JSON document.
const (
	KeyBalance       = "wallet.balance"
	KeyMonthEnd      = "wallet.monthEndDate"
	KeyTransactions  = "budget.transactions"
	KeyCustomButtons = "budget.customButtons"
	KeyWorkouts      = "gym.workouts"
	KeyAnchors       = "gym.anchors"
	KeyTemplate      = "gym.template"
	KeyPhotos        = "gym.photos"
	KeyWeightLog     = "weight.log"
	KeyProteinLog    = "protein.log"
	KeyProteinGoal   = "protein.goal"
	KeyCalorieLog    = "calories.log"
	KeyMirrorSession = "mirror.session"
	KeyMirrorDeletes = "mirror.pendingDeletes"
)

// AllKeys lists every key the app writes, in a stable order.
var AllKeys = []string{
	KeyBalance, KeyMonthEnd, KeyTransactions, KeyCustomButtons,
	KeyWorkouts, KeyAnchors, KeyTemplate, KeyPhotos,
	KeyWeightLog, KeyProteinLog, KeyProteinGoal, KeyCalorieLog,
	KeyMirrorSession, KeyMirrorDeletes,
}
