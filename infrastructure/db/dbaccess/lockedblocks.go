package dbaccess

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/kaspanet/chaintracker/infrastructure/db/database"
	"github.com/pkg/errors"
)

var (
	lockedBlocksBucket = database.MakeBucket([]byte("locked-blocks"))
	lockedLengthKey    = database.MakeBucket([]byte("locked-blocks-meta")).Key([]byte("length"))
)

// LockedBlockStore persists the locked chain of a chain tracker. Its
// StoreLockedBlocks method is meant to serve as the tracker's finalization
// hook, and LockedChain as the source of the chain restored on startup.
type LockedBlockStore struct {
	db database.Database
}

// NewLockedBlockStore returns a LockedBlockStore backed by db
func NewLockedBlockStore(db database.Database) *LockedBlockStore {
	return &LockedBlockStore{db: db}
}

// StoreLockedBlocks appends newlyLocked to the stored locked chain in a
// single transaction. priorLockedLength must equal the amount of blocks
// already stored.
func (s *LockedBlockStore) StoreLockedBlocks(newlyLocked []*externalapi.BlockRecord, priorLockedLength uint64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		err := tx.RollbackUnlessClosed()
		if err != nil {
			log.Errorf("Failed to roll back storing locked blocks: %s", err)
		}
	}()

	storedLength, err := lockedLength(tx)
	if err != nil {
		return err
	}
	if storedLength != priorLockedLength {
		return errors.Errorf("cannot store locked blocks after index %d: %d blocks are stored",
			priorLockedLength, storedLength)
	}

	for i, record := range newlyLocked {
		err := tx.Put(lockedBlocksBucket.IndexKey(priorLockedLength+uint64(i)), serializeBlockRecord(record))
		if err != nil {
			return err
		}
	}
	newLength := priorLockedLength + uint64(len(newlyLocked))
	err = tx.Put(lockedLengthKey, serializeUint64(newLength))
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return err
	}
	log.Debugf("Stored %d locked blocks, %d are stored in total", len(newlyLocked), newLength)
	return nil
}

// LockedLength returns the amount of stored locked blocks
func (s *LockedBlockStore) LockedLength() (uint64, error) {
	return lockedLength(s.db)
}

func lockedLength(accessor database.DataAccessor) (uint64, error) {
	serializedLength, err := accessor.Get(lockedLengthKey)
	if database.IsNotFoundError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return deserializeUint64(serializedLength)
}

// LockedChain returns every stored locked block, oldest first
func (s *LockedBlockStore) LockedChain() ([]*externalapi.BlockRecord, error) {
	length, err := s.LockedLength()
	if err != nil {
		return nil, err
	}

	cursor, err := s.db.Cursor(lockedBlocksBucket)
	if err != nil {
		return nil, err
	}
	defer func() {
		err := cursor.Close()
		if err != nil {
			log.Errorf("Failed to close the locked blocks cursor: %s", err)
		}
	}()

	records := make([]*externalapi.BlockRecord, 0, length)
	for uint64(len(records)) < length && cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		expectedKey := lockedBlocksBucket.IndexKey(uint64(len(records)))[len(lockedBlocksBucket.Path()):]
		if string(key) != string(expectedKey) {
			return nil, errors.Errorf("locked block %d is missing from the database", len(records))
		}

		serializedRecord, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		record, err := deserializeBlockRecord(serializedRecord)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to deserialize locked block %d", len(records))
		}
		records = append(records, record)
	}
	if uint64(len(records)) != length {
		return nil, errors.Errorf("found %d locked blocks instead of %d", len(records), length)
	}
	return records, nil
}
