/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package server owns the two SimplePIR database flavours (embedding and
// encoding), the periodic refresh loop that rebuilds them from a record
// source, and the record-source subprocess contract.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/exo-explore/private-search/internal"
)

// Record is one item fetched from an external data source: at least a
// Name, plus the raw JSON object it came from (so the encoding database
// can store and later return the whole record, not just its name).
type Record struct {
	Name string
	Raw  json.RawMessage
}

// RecordSource fetches the current record list from an external
// collaborator.
type RecordSource interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// SubprocessSource runs an external command and parses its stdout as a
// JSON array of objects, each with at least a "name" field. A non-zero
// exit status or unparseable output is reported as internal.ErrExternalCommand.
type SubprocessSource struct {
	Name string
	Args []string
}

// NewSubprocessSource returns a SubprocessSource that runs name with args.
func NewSubprocessSource(name string, args ...string) *SubprocessSource {
	return &SubprocessSource{Name: name, Args: args}
}

// Fetch implements RecordSource.
func (s *SubprocessSource) Fetch(ctx context.Context) ([]Record, error) {
	cmd := exec.CommandContext(ctx, s.Name, s.Args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(internal.ErrExternalCommand, "running %s: %v", s.Name, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, errors.Wrapf(internal.ErrExternalCommand, "parsing output of %s: %v", s.Name, err)
	}

	records := make([]Record, len(raw))
	for i, r := range raw {
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(r, &named); err != nil {
			return nil, errors.Wrapf(internal.ErrExternalCommand, "parsing record %d of %s: %v", i, s.Name, err)
		}
		records[i] = Record{Name: named.Name, Raw: r}
	}

	return records, nil
}
