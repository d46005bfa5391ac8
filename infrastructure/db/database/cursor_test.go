package database_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/weightdag/dagd/infrastructure/db/database"
)

func validateCurrentCursorKeyAndValue(t *testing.T, testName string, cursor database.Cursor,
	expectedKey *database.Key, expectedValue []byte) {

	cursorKey, err := cursor.Key()
	if err != nil {
		t.Fatalf("%s: Key "+
			"unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(cursorKey.Bytes(), expectedKey.Bytes()) {
		t.Fatalf("%s: Key "+
			"returned wrong key. Want: %s, got: %s",
			testName, string(expectedKey.Bytes()), string(cursorKey.Bytes()))
	}
	cursorValue, err := cursor.Value()
	if err != nil {
		t.Fatalf("%s: Value "+
			"unexpectedly failed for key %s: %s",
			testName, cursorKey, err)
	}
	if !bytes.Equal(cursorValue, expectedValue) {
		t.Fatalf("%s: Value "+
			"returned wrong value for key %s. Want: %s, got: %s",
			testName, cursorKey, string(expectedValue), string(cursorValue))
	}
}

func TestCursorSanity(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCursorSanity", testCursorSanity)
}

func testCursorSanity(t *testing.T, db database.Database, testName string) {
	entries := populateDatabaseForTest(t, db, testName)
	bucket := entries[0].key.Bucket()

	// An entry outside the bucket must not be visited
	err := db.Put(database.MakeBucket([]byte("other")).Key([]byte("key0")), []byte("other"))
	if err != nil {
		t.Fatalf("%s: Put "+
			"unexpectedly failed: %s", testName, err)
	}

	cursor, err := db.Cursor(bucket)
	if err != nil {
		t.Fatalf("%s: Cursor "+
			"unexpectedly failed: %s", testName, err)
	}

	for i, entry := range entries {
		if !cursor.Next() {
			t.Fatalf("%s: Next "+
				"unexpectedly returned false at entry %d", testName, i)
		}
		validateCurrentCursorKeyAndValue(t, testName, cursor, entry.key, entry.value)
	}
	if cursor.Next() {
		t.Fatalf("%s: Next "+
			"unexpectedly returned true after the last entry", testName)
	}
	_, err = cursor.Key()
	if !database.IsNotFoundError(err) {
		t.Fatalf("%s: Key "+
			"of an exhausted cursor returned wrong error: %v", testName, err)
	}

	if !cursor.First() {
		t.Fatalf("%s: First "+
			"unexpectedly returned false", testName)
	}
	validateCurrentCursorKeyAndValue(t, testName, cursor, entries[0].key, entries[0].value)

	err = cursor.Seek(entries[7].key)
	if err != nil {
		t.Fatalf("%s: Seek "+
			"unexpectedly failed: %s", testName, err)
	}
	validateCurrentCursorKeyAndValue(t, testName, cursor, entries[7].key, entries[7].value)

	err = cursor.Seek(bucket.Key([]byte("doesn't exist")))
	if !database.IsNotFoundError(err) {
		t.Fatalf("%s: Seek "+
			"returned wrong error: %v", testName, err)
	}

	err = cursor.Close()
	if err != nil {
		t.Fatalf("%s: Close "+
			"unexpectedly failed: %s", testName, err)
	}

	func() {
		defer func() {
			panicErr := recover()
			if panicErr == nil {
				t.Fatalf("%s: cursor unexpectedly "+
					"didn't panic after being closed", testName)
			}
			if !strings.Contains(fmt.Sprintf("%v", panicErr), "closed cursor") {
				t.Fatalf("%s: cursor panicked "+
					"with wrong message: %v", testName, panicErr)
			}
		}()
		cursor.Next()
	}()
}
