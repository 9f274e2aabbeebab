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

package server

import (
	"context"
	"log"
	"time"
)

// RefreshInterval is the period between background rebuilds of a Database.
const RefreshInterval = 15 * time.Second

// Refresher periodically calls Update on a Database. Build work for the
// next generation runs without holding any lock on the database; only the
// final pointer swap inside Update takes the write lock, so readers are
// never starved by a slow rebuild.
type Refresher struct {
	db Database
}

// NewRefresher returns a Refresher for db.
func NewRefresher(db Database) *Refresher {
	return &Refresher{db: db}
}

// Run blocks, calling Update once immediately and then every
// RefreshInterval, until ctx is cancelled. A failed Update is logged and
// the previous generation, if any, keeps serving until the next tick.
func (r *Refresher) Run(ctx context.Context) {
	r.tick(ctx)

	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if err := r.db.Update(ctx); err != nil {
		log.Printf("refresh failed, keeping previous generation: %v", err)
	}
}
