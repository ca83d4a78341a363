// File: internal/jobs/post_expiry.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"farmlink_backend/internal/config"
	"farmlink_backend/internal/post"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PostExpiryJob periodically marks stale open posts as expired.
type PostExpiryJob struct {
	postService   post.Service
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewPostExpiryJob creates a new PostExpiryJob.
func NewPostExpiryJob(
	postService post.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *PostExpiryJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &PostExpiryJob{
		postService:   postService,
		logger:        logger.Named("PostExpiryJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *PostExpiryJob) SetupAndStart() error {
	jobSpec := j.cfg.PostCloseJobSchedule // e.g., "@daily", "0 1 * * *"
	if jobSpec == "" {
		j.logger.Warn("Post expiry job schedule not defined (POST_CLOSE_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule post expiry job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Post expiry job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *PostExpiryJob) runJob() {
	j.logger.Info("Starting post expiry job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expiredCount, err := j.postService.CloseStalePosts(ctx)
	if err != nil {
		j.logger.Error("Post expiry job run failed", zap.Error(err))
	} else {
		j.logger.Info("Post expiry job run completed", zap.Int64("posts_expired", expiredCount))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *PostExpiryJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping post expiry job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Post expiry job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Post expiry job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
