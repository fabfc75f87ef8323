package ldb

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/kaspanet/chaintracker/infrastructure/db/database"
)

func prepareDatabaseForTest(t *testing.T, testName string) (ldb *LevelDB, teardownFunc func()) {
	ldb, err := NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("%s: NewLevelDB unexpectedly failed: %s", testName, err)
	}
	teardownFunc = func() {
		err := ldb.Close()
		if err != nil {
			t.Fatalf("%s: Close unexpectedly failed: %s", testName, err)
		}
	}
	return ldb, teardownFunc
}

func TestLevelDBSanity(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBSanity")
	defer teardownFunc()

	// Put something into the db
	key := []byte("key")
	putData := []byte("Hello world!")
	err := ldb.Put(key, putData)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Put returned unexpected error: %s", err)
	}

	// Get from the key previously put to
	getData, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Get returned unexpected error: %s", err)
	}

	// Make sure that the put data and the get data are equal
	if !reflect.DeepEqual(getData, putData) {
		t.Fatalf("TestLevelDBSanity: get data and put data are not equal. Put: %s, got: %s",
			string(putData), string(getData))
	}

	err = ldb.Delete(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Delete returned unexpected error: %s", err)
	}
	_, err = ldb.Get(key)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestLevelDBSanity: Get of a deleted key returned unexpected error: %v", err)
	}
}

func TestLevelDBTransactionSanity(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBTransactionSanity")
	defer teardownFunc()

	// Case 1. Write in tx and then read directly from the DB
	tx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Begin unexpectedly failed: %s", err)
	}

	key := []byte("key")
	putData := []byte("Hello world!")
	err = tx.Put(key, putData)
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Put returned unexpected error: %s", err)
	}

	// Make sure that the data isn't visible before the commit
	exists, err := ldb.Has(key)
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Has returned unexpected error: %s", err)
	}
	if exists {
		t.Fatalf("TestLevelDBTransactionSanity: uncommitted data is visible")
	}

	err = tx.Commit()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Commit returned unexpected error: %s", err)
	}

	getData, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Get returned unexpected error: %s", err)
	}
	if !reflect.DeepEqual(getData, putData) {
		t.Fatalf("TestLevelDBTransactionSanity: get data and put data are not equal. Put: %s, got: %s",
			string(putData), string(getData))
	}

	// Case 2. Write in tx and roll back
	tx, err = ldb.Begin()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Begin unexpectedly failed: %s", err)
	}
	otherKey := []byte("other key")
	err = tx.Put(otherKey, putData)
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Put returned unexpected error: %s", err)
	}
	err = tx.Rollback()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Rollback returned unexpected error: %s", err)
	}
	err = tx.RollbackUnlessClosed()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: RollbackUnlessClosed returned unexpected error: %s", err)
	}
	_, err = ldb.Get(otherKey)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestLevelDBTransactionSanity: rolled back data is visible: %v", err)
	}
	err = tx.Commit()
	if err == nil {
		t.Fatalf("TestLevelDBTransactionSanity: Commit of a closed transaction unexpectedly succeeded")
	}
}

func TestCursorSanity(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestCursorSanity")
	defer teardownFunc()

	// Write some data to the database, and some noise next to it
	bucket := database.MakeBucket([]byte("bucket"))
	for i := uint64(0); i < 10; i++ {
		err := ldb.Put(bucket.IndexKey(i), []byte(fmt.Sprintf("value%d", i)))
		if err != nil {
			t.Fatalf("TestCursorSanity: Put unexpectedly failed: %s", err)
		}
	}
	err := ldb.Put(database.MakeBucket([]byte("bucket2")).Key([]byte("noise")), []byte("noise"))
	if err != nil {
		t.Fatalf("TestCursorSanity: Put unexpectedly failed: %s", err)
	}

	cursor, err := ldb.Cursor(bucket)
	if err != nil {
		t.Fatalf("TestCursorSanity: ldb.Cursor unexpectedly failed: %s", err)
	}

	i := uint64(0)
	for cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			t.Fatalf("TestCursorSanity: Key unexpectedly failed: %s", err)
		}
		expectedKey := bucket.IndexKey(i)[len(bucket.Path()):]
		if !reflect.DeepEqual(key, expectedKey) {
			t.Fatalf("TestCursorSanity: Key returned wrong key. Want: %x, got: %x", expectedKey, key)
		}
		value, err := cursor.Value()
		if err != nil {
			t.Fatalf("TestCursorSanity: Value unexpectedly failed: %s", err)
		}
		expectedValue := fmt.Sprintf("value%d", i)
		if string(value) != expectedValue {
			t.Fatalf("TestCursorSanity: Value returned wrong value. Want: %s, got: %s", expectedValue, value)
		}
		i++
	}
	if i != 10 {
		t.Fatalf("TestCursorSanity: cursor visited %d entries instead of 10", i)
	}

	err = cursor.Close()
	if err != nil {
		t.Fatalf("TestCursorSanity: Close unexpectedly failed: %s", err)
	}
	err = cursor.Close()
	if err == nil {
		t.Fatalf("TestCursorSanity: closing a closed cursor unexpectedly succeeded")
	}
}
