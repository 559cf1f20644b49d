//go:build unit
// +build unit

package scheduler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oqtopus-team/quantum-emulator/core"
)

type TestFIFO struct {
	conqFIFO
	queuedChan chan struct{}
}

func newTestFIFO(queuedChan chan struct{}) *TestFIFO {
	return &TestFIFO{
		conqFIFO:   *newConqFIFO(),
		queuedChan: queuedChan,
	}
}

func (t *TestFIFO) Enqueue(js *jobInScheduler) error {
	err := t.FIFO.Enqueue(js)
	t.queuedChan <- struct{}{}
	return err
}

func setUpTestNormalQueue(queuedChan chan struct{}, maxSize int) *NormalQueue {
	n := &NormalQueue{}
	conf := &core.Conf{QueueMaxSize: maxSize, QueueRefillThreshold: 2}
	n.Setup(conf)
	n.fifo = newTestFIFO(queuedChan)
	return n
}

func tearDownTestNormalQueue(n *NormalQueue) {
	n.TearDown()
}

func TestPutNormalQueue(t *testing.T) {
	s := core.SCWithUnimplementedContainer()
	defer s.TearDown()
	queuedChan := make(chan struct{})
	n := setUpTestNormalQueue(queuedChan, 1000)
	defer tearDownTestNormalQueue(n)

	n.queueChan <- newjobInScheduler(t, "test1")
	<-queuedChan
	assert.Equal(t, 1, n.GetCurrentSize())
	js, err := n.Dequeue(false)
	assert.Nil(t, err)
	assert.Equal(t, "test1", js.job.JobData().ID)
}

func TestNormalQueueDelete(t *testing.T) {
	s := core.SCWithUnimplementedContainer()
	defer s.TearDown()
	queuedChan := make(chan struct{})
	n := setUpTestNormalQueue(queuedChan, 1000)
	defer tearDownTestNormalQueue(n)

	for i, id := range []string{"test1", "test2", "test3", "test4"} {
		n.queueChan <- newjobInScheduler(t, id)
		<-queuedChan
		assert.Equal(t, i+1, n.fifo.GetLen())
	}
	assert.True(t, n.IsOverRefillThreshold())

	assert.Nil(t, n.Delete("test3"))
	assert.Equal(t, 3, n.fifo.GetLen())
	assert.EqualError(t, n.Delete("test3"), "no entry for test3")

	for _, want := range []string{"test1", "test2", "test4"} {
		jis, err := n.Dequeue(false)
		assert.Nil(t, err)
		assert.Equal(t, want, jis.job.JobData().ID)
	}

	jis, err := n.Dequeue(false)
	assert.EqualError(t, err, "empty queue")
	assert.Nil(t, jis)
	assert.False(t, n.IsOverRefillThreshold())
}

func TestNormalQueueRejectsWhenFull(t *testing.T) {
	s := core.SCWithUnimplementedContainer()
	defer s.TearDown()
	queuedChan := make(chan struct{})
	n := setUpTestNormalQueue(queuedChan, 1)
	defer tearDownTestNormalQueue(n)

	n.queueChan <- newjobInScheduler(t, "first")
	<-queuedChan

	var wg sync.WaitGroup
	wg.Add(1)
	rejected := newjobInScheduler(t, "second")
	rejected.finished = &wg
	n.queueChan <- rejected
	wg.Wait()

	assert.Equal(t, 1, n.GetCurrentSize())
	assert.Equal(t, core.FAILED, rejected.job.JobData().Status)
	assert.Equal(t, "queue is full (max size 1)", rejected.job.JobData().Result.Message)
}

func newjobInScheduler(t *testing.T, id string) *jobInScheduler {
	jm, err := core.NewJobManager(&core.UnimplementedJob{})
	assert.Nil(t, err)
	jc, err := core.NewJobContext()
	assert.Nil(t, err)
	jd := core.NewJobData()
	jd.ID = id
	nj, err := jm.NewJobFromJobData(jd, jc)
	assert.Nil(t, err)
	return &jobInScheduler{
		job: nj,
	}
}
