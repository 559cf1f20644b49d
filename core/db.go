package core

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type MemoryDB struct {
	dbMap         map[string]Job
	innerJobIDSet map[string]struct{}
	dbChan        <-chan Job
	mu            sync.RWMutex
}

func (d *MemoryDB) Setup(dbc DBChan, c *Conf) error {
	d.dbMap = make(map[string]Job)
	d.innerJobIDSet = make(map[string]struct{})
	d.dbChan = dbc
	if dbc == nil {
		return nil
	}
	go func() {
		for job := range d.dbChan {
			zap.L().Debug(fmt.Sprintf("[MemoryDB] Received %s", job.JobData().ID))
			if !d.updateIfExists(job) {
				zap.L().Debug(fmt.Sprintf("[MemoryDB] dropped update of %s, not in DB", job.JobData().ID))
			}
		}
	}()
	return nil
}

func (d *MemoryDB) Insert(j Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := j.JobData().ID
	if _, ok := d.dbMap[id]; ok {
		return fmt.Errorf("%w: %s", ErrorJobIDConflict, id)
	}
	d.dbMap[id] = j.Clone()
	return nil
}

// Get returns a snapshot of the stored job. The caller may read it while
// workers keep updating the original.
func (d *MemoryDB) Get(jobID string) (Job, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if val, ok := d.dbMap[jobID]; ok {
		return val.Clone(), nil
	}
	err := fmt.Errorf("not found %s", jobID)
	zap.L().Info("[MemoryDB]", zap.Error(err))
	return nil, err
}

func (d *MemoryDB) Update(j Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dbMap[j.JobData().ID] = j.Clone()
	return nil
}

// updateIfExists keeps a deleted job from coming back through a late
// update from a worker.
func (d *MemoryDB) updateIfExists(j Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := j.JobData().ID
	if _, ok := d.dbMap[id]; !ok {
		return false
	}
	d.dbMap[id] = j.Clone()
	return true
}

func (d *MemoryDB) Delete(jobID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.dbMap[jobID]; ok {
		delete(d.dbMap, jobID)
		zap.L().Info(fmt.Sprintf("[MemoryDB] deleted %s from DB", jobID))
		return nil
	}
	err := fmt.Errorf("failed to find %s", jobID)
	zap.L().Info("[MemoryDB]", zap.Error(err))
	return err
}

// Count returns the number of stored jobs per status.
func (d *MemoryDB) Count() map[Status]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	counts := make(map[Status]int)
	for _, j := range d.dbMap {
		counts[j.JobData().Status]++
	}
	return counts
}

func (d *MemoryDB) AddToInnerJobIDSet(jobID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.innerJobIDSet[jobID] = struct{}{}
}

func (d *MemoryDB) RemoveFromInnerJobIDSet(jobID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.innerJobIDSet, jobID)
}

func (d *MemoryDB) ExistInInnerJobIDSet(jobID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.innerJobIDSet[jobID]
	return ok
}
