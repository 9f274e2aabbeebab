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

// Command embedding-server serves the embedding-side SimplePIR database
// over HTTP, refreshing it periodically from a record source.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/exo-explore/private-search/embedding"
	"github.com/exo-explore/private-search/httpapi"
	"github.com/exo-explore/private-search/server"
)

const defaultPort = "3001"

func main() {
	port := defaultPort
	if v := os.Getenv("EMBEDDING_SERVER_PORT"); v != "" {
		port = v
	}

	source := recordSourceFromEnv()
	embedder := embedding.NewHashingEmbedder()
	db := server.NewEmbeddingDatabase(source, embedder, server.DefaultSecretDimension, server.DefaultModPower)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	refresher := server.NewRefresher(db)
	go refresher.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: httpapi.NewMux(db),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Printf("embedding-server listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("embedding-server: %v", err)
	}
}

func recordSourceFromEnv() server.RecordSource {
	cmd := os.Getenv("RECORDSOURCE_CMD")
	if cmd == "" {
		cmd = "./recordsource"
	}
	return server.NewSubprocessSource(cmd)
}
