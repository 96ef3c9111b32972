package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"ai-interview-backend/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

// Dispatcher — очередь обработки ответов с ограниченным пулом воркеров.
// Ключ идемпотентности (session_id, question_id): повторная постановка,
// пока обработка не завершена, отклоняется с ErrRunInFlight
type Dispatcher interface {
	Enqueue(sessionID, questionID string) error
	StartWorkers(ctx context.Context)
}

func NewDispatcher(orchestrator *Orchestrator, workers, queueSize int) Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &dispatcherImpl{
		orchestrator: orchestrator,
		workers:      workers,
		queue:        make(chan Task, queueSize),
		inFlight:     map[string]struct{}{},
	}
}

type dispatcherImpl struct {
	orchestrator *Orchestrator
	workers      int
	queue        chan Task

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func taskKey(sessionID, questionID string) string {
	return sessionID + "/" + questionID
}

func (d *dispatcherImpl) Enqueue(sessionID, questionID string) error {
	key := taskKey(sessionID, questionID)

	d.mu.Lock()
	if _, ok := d.inFlight[key]; ok {
		d.mu.Unlock()
		return errors.Wrapf(models.ErrRunInFlight, "session_id=%s question_id=%s", sessionID, questionID)
	}
	d.inFlight[key] = struct{}{}
	d.mu.Unlock()

	select {
	case d.queue <- Task{SessionID: sessionID, QuestionID: questionID}:
		return nil
	default:
		d.release(key)
		return errors.New("очередь обработки ответов переполнена")
	}
}

func (d *dispatcherImpl) release(key string) {
	d.mu.Lock()
	delete(d.inFlight, key)
	d.mu.Unlock()
}

func (d *dispatcherImpl) StartWorkers(ctx context.Context) {
	for n := 0; n < d.workers; n++ {
		go d.run(ctx, n)
	}
}

func (d *dispatcherImpl) getLogger(workerNum int) *logrus.Entry {
	return log.WithField("worker_name", fmt.Sprintf("AnswerPipelineWorker-%d", workerNum))
}

func (d *dispatcherImpl) run(ctx context.Context, workerNum int) {
	logger := d.getLogger(workerNum)
	logger.Info("воркер обработки ответов запущен")
	for {
		select {
		// проверяем не завершён ли ещё контекст и выходим, если завершён
		case <-ctx.Done():
			logger.Info("воркер обработки ответов остановлен")
			return
		case task := <-d.queue:
			d.handle(ctx, task, logger)
		}
	}
}

func (d *dispatcherImpl) handle(ctx context.Context, task Task, logger *logrus.Entry) {
	defer d.release(taskKey(task.SessionID, task.QuestionID))
	defer func() {
		if r := recover(); r != nil {
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()

	if err := d.orchestrator.Run(ctx, task); err != nil {
		logger.
			WithError(err).
			WithField("session_id", task.SessionID).
			WithField("question_id", task.QuestionID).
			Error("ошибка обработки ответа")
	}
}
