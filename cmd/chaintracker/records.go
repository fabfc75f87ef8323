package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/kaspanet/chaintracker/domain/chaintracker/utils/hashes"
	"github.com/pkg/errors"
)

// recordReader reads BlockRecords from a headers file. Every non-empty line
// that does not start with # holds a record as "<hash> <parent> <weight>".
type recordReader struct {
	scanner    *bufio.Scanner
	labels     bool
	lineNumber int
}

func newRecordReader(input io.Reader, labels bool) *recordReader {
	return &recordReader{scanner: bufio.NewScanner(input), labels: labels}
}

// readBatch returns up to maxRecords records. An empty batch means the input
// is exhausted.
func (r *recordReader) readBatch(maxRecords int) ([]*externalapi.BlockRecord, error) {
	records := make([]*externalapi.BlockRecord, 0, maxRecords)
	for len(records) < maxRecords && r.scanner.Scan() {
		r.lineNumber++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		record, err := parseRecordLine(line, r.labels)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", r.lineNumber)
		}
		records = append(records, record)
	}
	err := r.scanner.Err()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return records, nil
}

func parseRecordLine(line string, labels bool) (*externalapi.BlockRecord, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, errors.Errorf("expected <hash> <parent> <weight> but got %d fields", len(fields))
	}

	blockHash, err := parseHash(fields[0], labels)
	if err != nil {
		return nil, err
	}
	parentHash, err := parseHash(fields[1], labels)
	if err != nil {
		return nil, err
	}
	weight, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid weight %s", fields[2])
	}

	return &externalapi.BlockRecord{Hash: blockHash, ParentHash: parentHash, Weight: weight}, nil
}

func parseHash(field string, labels bool) (*externalapi.DomainHash, error) {
	if labels {
		return hashes.FromLabel(field), nil
	}
	return externalapi.NewDomainHashFromString(field)
}
