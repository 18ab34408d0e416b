package app

import (
	"context"
	"sync"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
)

type DetailFunc func(ctx context.Context, ref string) (domain.ListingDetail, error)

// DetailLoader exécute les chargements de détail comme des tâches indépendantes,
// indexées par référence. Plusieurs demandes concurrentes pour la même référence
// partagent la tâche en cours; la tâche est annulée quand le dernier demandeur part.
// Une tâche terminée est oubliée: rien n'est mis en cache.
type DetailLoader struct {
	load DetailFunc

	mu    sync.Mutex
	tasks map[string]*detailTask
}

type detailTask struct {
	cancel  context.CancelFunc
	done    chan struct{}
	waiters int

	// écrits avant close(done)
	detail domain.ListingDetail
	err    error
}

func NewDetailLoader(load DetailFunc) *DetailLoader {
	return &DetailLoader{load: load, tasks: map[string]*detailTask{}}
}

func (l *DetailLoader) Get(ctx context.Context, ref string) (domain.ListingDetail, error) {
	l.mu.Lock()
	t, ok := l.tasks[ref]
	if !ok {
		// La tâche garde les valeurs du contexte (logger, request id) mais pas son annulation:
		// elle ne s'arrête que si tous les demandeurs sont partis.
		taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		t = &detailTask{cancel: cancel, done: make(chan struct{})}
		l.tasks[ref] = t
		go l.run(taskCtx, ref, t)
	}
	t.waiters++
	l.mu.Unlock()

	select {
	case <-t.done:
		l.leave(ref, t)
		return t.detail, t.err
	case <-ctx.Done():
		l.leave(ref, t)
		return domain.ListingDetail{}, ctx.Err()
	}
}

// Cancel interrompt la tâche en cours pour ref. Ses demandeurs reçoivent context.Canceled.
func (l *DetailLoader) Cancel(ref string) bool {
	l.mu.Lock()
	t, ok := l.tasks[ref]
	if ok {
		delete(l.tasks, ref)
	}
	l.mu.Unlock()
	if ok {
		t.cancel()
	}
	return ok
}

// Pending renvoie le nombre de tâches en cours.
func (l *DetailLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *DetailLoader) run(ctx context.Context, ref string, t *detailTask) {
	defer t.cancel()

	detail, err := l.load(ctx, ref)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		detail = domain.ListingDetail{}
	}
	t.detail, t.err = detail, err

	l.mu.Lock()
	if l.tasks[ref] == t {
		delete(l.tasks, ref)
	}
	l.mu.Unlock()
	close(t.done)
}

func (l *DetailLoader) leave(ref string, t *detailTask) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t.waiters--
	if t.waiters > 0 {
		return
	}
	select {
	case <-t.done:
	default:
		t.cancel()
		if l.tasks[ref] == t {
			delete(l.tasks, ref)
		}
	}
}
