package memtable

import "github.com/hearthdb/hearthkv/pkg/batch"

// Inserter is the production batch.Handler: it replays a batch's Put and
// Delete records into a MemTable, assigning each record the next sequence
// number after a fixed base (typically the sequence the WAL record was
// written under).
type Inserter struct {
	table *MemTable
	seq   uint64
}

// NewInserter returns an Inserter that writes into table, numbering the
// first record baseSeq and incrementing for each subsequent one.
func NewInserter(table *MemTable, baseSeq uint64) *Inserter {
	return &Inserter{table: table, seq: baseSeq}
}

// Put implements batch.Handler.
func (ins *Inserter) Put(key, value []byte) error {
	if err := ins.table.Add(ins.seq, batch.TypeValue, key, value); err != nil {
		return err
	}
	ins.seq++
	return nil
}

// Delete implements batch.Handler.
func (ins *Inserter) Delete(key []byte) error {
	if err := ins.table.Add(ins.seq, batch.TypeDeletion, key, nil); err != nil {
		return err
	}
	ins.seq++
	return nil
}

// NextSequence returns the sequence number the next record would receive.
func (ins *Inserter) NextSequence() uint64 {
	return ins.seq
}
