package scheduler

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/core"
)

// statusManager sets a job's status and remembers every status the job has
// been seen in while the scheduler handled it.
type statusManager interface {
	Update(job core.Job, status core.Status)
	Delete(jobID string)
	Get(jobID string) []core.Status
}

type historyStatusManager struct {
	history map[string][]core.Status
	mu      sync.RWMutex
}

func newHistoryStatusManager() *historyStatusManager {
	return &historyStatusManager{
		history: make(map[string][]core.Status),
	}
}

func (h *historyStatusManager) Update(job core.Job, status core.Status) {
	job.JobData().Status = status
	h.mu.Lock()
	defer h.mu.Unlock()
	id := job.JobData().ID
	h.history[id] = append(h.history[id], status)
}

func (h *historyStatusManager) Delete(jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.history, jobID)
}

func (h *historyStatusManager) Get(jobID string) []core.Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]core.Status(nil), h.history[jobID]...)
}

type NormalScheduler struct {
	queue         *NormalQueue
	workers       int
	statusManager statusManager
}

type jobInScheduler struct {
	job      core.Job
	finished *sync.WaitGroup
}

func (n *NormalScheduler) Setup(conf *core.Conf) error {
	n.queue = &NormalQueue{}
	if err := n.queue.Setup(conf); err != nil {
		return err
	}
	n.workers = conf.Workers
	if n.workers < 1 {
		n.workers = 1
	}
	n.statusManager = newHistoryStatusManager()
	return nil
}

// Start launches the workers. Each worker simulates one job at a time.
func (n *NormalScheduler) Start() error {
	for i := 0; i < n.workers; i++ {
		go n.work(i)
	}
	zap.L().Info(fmt.Sprintf("started %d scheduler worker(s)", n.workers))
	return nil
}

func (n *NormalScheduler) work(worker int) {
	for {
		jis, err := n.queue.Dequeue(true)
		if err != nil {
			zap.L().Error(fmt.Sprintf("[worker %d] failed to get a job from queue. Reason:%s", worker, err))
			continue
		}
		zap.L().Debug(fmt.Sprintf("[worker %d] processing job:%s", worker, jis.job.JobData().ID))
		n.process(jis)
	}
}

func (n *NormalScheduler) process(jis *jobInScheduler) {
	defer jis.finished.Done()
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error(fmt.Sprintf("recovered from panic while processing job(%s): %v",
				jis.job.JobData().ID, r))
			core.SetFailureWithError(jis.job, fmt.Errorf("panic in processing: %v", r))
		}
	}()
	n.statusManager.Update(jis.job, core.RUNNING)
	jis.job.JobContext().DBChan <- jis.job.Clone()
	jis.job.Process()
	zap.L().Debug(fmt.Sprintf("finished to process job(%s), status:%s",
		jis.job.JobData().ID, jis.job.JobData().Status))
}

func (n *NormalScheduler) HandleJob(j core.Job) {
	zap.L().Debug(fmt.Sprintf("starting to handle job(%s) in %s", j.JobData().ID, j.JobData().Status))
	go func() {
		jid := j.JobData().ID
		defer func() {
			zap.L().Debug(fmt.Sprintf("status history job(%s): %v", jid, n.statusManager.Get(jid)))
			n.statusManager.Delete(jid)
		}()
		n.handleImpl(j)
	}()
}

func (n *NormalScheduler) HandleJobForTest(j core.Job, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		n.handleImpl(j)
	}()
}

func (n *NormalScheduler) handleImpl(j core.Job) {
	jid := j.JobData().ID
	defer release(jid)
	for {
		st := j.JobData().Status // must be ready
		n.statusManager.Update(j, st)
		zap.L().Debug(fmt.Sprintf("handling job(%s)in %s starting", jid, st))
		if st != core.READY {
			zap.L().Error(
				fmt.Sprintf("finished to handle job(%s) with unexpected status:%s", jid, st))
			// not write to DB
			return
		}
		zap.L().Debug(fmt.Sprintf("handling job(%s). start pre-processing", jid))
		j.PreProcess()
		j.JobContext().DBChan <- j.Clone()
		if j.IsFinished() {
			zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after pre-processing", jid))
			n.statusManager.Update(j, j.JobData().Status)
			return
		}
		var wg sync.WaitGroup
		wg.Add(1)
		n.queue.queueChan <- &jobInScheduler{
			job:      j,
			finished: &wg,
		}
		wg.Wait() // wait for processing
		if j.IsFinished() {
			zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after processing with status:%s",
				jid, j.JobData().Status))
			n.statusManager.Update(j, j.JobData().Status)
			j.JobContext().DBChan <- j.Clone()
			return
		}
		zap.L().Debug(fmt.Sprintf("handling job(%s). start post-processing", jid))
		j.PostProcess()
		if j.IsFinished() {
			zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after post-processing with status:%s",
				jid, j.JobData().Status))
			n.statusManager.Update(j, j.JobData().Status)
			j.JobContext().DBChan <- j.Clone()
			return
		}
		zap.L().Debug(fmt.Sprintf("one more loop for job(%s)", jid))
	}
}

// release drops the job from the set of jobs held by the engine.
func release(jobID string) {
	s := core.GetSystemComponents()
	if s == nil {
		return
	}
	_ = s.Invoke(func(d core.DBManager) {
		d.RemoveFromInnerJobIDSet(jobID)
	})
}

func (n *NormalScheduler) GetCurrentQueueSize() int {
	return n.queue.fifo.GetLen()
}

func (n *NormalScheduler) IsOverRefillThreshold() bool {
	return n.queue.IsOverRefillThreshold()
}
