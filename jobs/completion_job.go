package jobs

import (
	"context"
	"log"
	"time"

	"github.com/tutorlk/scheduling_backend/repository"
)

// CompletionJob sweeps scheduled sessions whose end time has passed and
// marks them COMPLETED. No request path drives that transition.
type CompletionJob struct {
	sessions repository.SessionRepository
}

func NewCompletionJob(sessions repository.SessionRepository) *CompletionJob {
	return &CompletionJob{sessions: sessions}
}

func (j *CompletionJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	updated, err := j.sessions.CompleteEnded(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("🔥 Session completion sweep failed: %v", err)
		return
	}
	if updated > 0 {
		log.Printf("✅ Marked %d ended session(s) as completed.", updated)
	}
}
