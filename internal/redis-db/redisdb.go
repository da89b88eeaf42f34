/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redis_db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 500 * time.Millisecond

// Redis wraps the client used by the shared session store.
type Redis struct {
	dsn    string
	client *redis.Client
}

// ParseDSN accepts either a bare host:port ("redis:6379") or a full
// redis:// or rediss:// URL. A URL carrying only a password in the user
// position ("redis://secret@host:6379") is treated as password auth.
func ParseDSN(dsn string) (*redis.Options, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("redis dsn cannot be empty")
	}

	if !strings.Contains(dsn, "://") {
		return &redis.Options{Addr: dsn}, nil
	}

	scheme, rest, _ := strings.Cut(dsn, "://")
	if auth, host, ok := strings.Cut(rest, "@"); ok && !strings.Contains(auth, ":") {
		dsn = scheme + "://:" + auth + "@" + host
	}

	return redis.ParseURL(dsn)
}

// Dial connects to dsn and pings it before returning.
func Dial(ctx context.Context, dsn string) (*Redis, error) {
	opts, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Redis{dsn: dsn, client: client}, nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

func (r *Redis) Close() error {
	return r.client.Close()
}
