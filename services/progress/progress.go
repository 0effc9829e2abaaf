package progress

import (
	// Go Internal Packages
	"time"

	// Local Packages
	models "paybot-console/models"
)

// chainDepth is how many steps of Received -> In review -> Admitted -> Paid a status has
// reached. Statuses outside the table are treated as freshly received.
var chainDepth = map[models.Status]int{
	models.StatusPendiente:  1,
	models.StatusProcesando: 2,
	models.StatusAdmitido:   3,
	models.StatusPagado:     4,
}

// Derive maps a transaction to its ordered lifecycle view. A cancelled transaction always
// shows Received and Cancelled only, however far it had progressed.
func Derive(tx models.Transaction) []models.Step {
	if tx.Status == models.StatusCancelado {
		cancelledAt := tx.CancelledAt
		if cancelledAt == nil {
			cancelledAt = tx.UpdatedAt
		}
		return []models.Step{
			step(models.StepReceived, true, tx.CreatedAt),
			step(models.StepCancelled, true, cancelledAt),
		}
	}

	depth, ok := chainDepth[tx.Status]
	if !ok {
		depth = 1
	}
	return []models.Step{
		step(models.StepReceived, true, tx.CreatedAt),
		step(models.StepInReview, depth >= 2 || tx.ReviewStartedAt != nil, tx.ReviewStartedAt),
		step(models.StepAdmitted, depth >= 3, tx.AdmittedAt),
		step(models.StepPaid, depth >= 4, tx.PaidAt),
	}
}

func step(label models.StepLabel, done bool, at *time.Time) models.Step {
	s := models.Step{Label: label, Done: done}
	if done && at != nil {
		ts := *at
		s.Timestamp = &ts
	}
	return s
}
