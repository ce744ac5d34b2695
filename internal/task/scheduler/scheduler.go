package scheduler

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"mutualtasks-backend/internal/task/usecase"

	"github.com/robfig/cron/v3"
)

// OverdueSweeper archives active participant statuses whose due date passed
// the grace window, on a daily cron schedule.
type OverdueSweeper struct {
	taskUsecase usecase.TaskUsecase
	graceDays   int
	cron        *cron.Cron
}

// NewOverdueSweeper creates a sweeper. graceDays is how many full days a
// task may sit past its due date before the sweep archives it.
func NewOverdueSweeper(taskUsecase usecase.TaskUsecase, graceDays int, loc *time.Location) *OverdueSweeper {
	return &OverdueSweeper{
		taskUsecase: taskUsecase,
		graceDays:   graceDays,
		cron:        cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the daily sweep at the given HH:MM time and starts the
// cron runner.
func (s *OverdueSweeper) Start(timeStr string) error {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[Sweeper] Overdue sweep scheduled daily at %s (grace %d days)", timeStr, s.graceDays)
	return nil
}

// Stop stops the cron runner and waits for a running sweep to finish
func (s *OverdueSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *OverdueSweeper) sweep() {
	cutoff := time.Now().AddDate(0, 0, -s.graceDays)
	archived, err := s.taskUsecase.ArchiveOverdue(cutoff)
	if err != nil {
		log.Printf("[Sweeper] Sweep failed: %v", err)
		return
	}
	if archived > 0 {
		log.Printf("[Sweeper] Archived %d overdue statuses", archived)
	}
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
