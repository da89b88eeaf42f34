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

package veneer

import (
	"context"

	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/model"
	"golang.org/x/sync/errgroup"
)

// Accounting reads the four collections concurrently and summarizes them.
// The first failed read cancels the others and no partial summary is returned.
func (v *Veneer) Accounting(ctx context.Context) (*aggregate.AccountingSummary, error) {
	ctx, span := tracer.Start(ctx, "Building accounting summary")
	defer span.End()

	kinds := model.Kinds()
	lists := make([][]model.Transaction, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			txns, err := v.client.Transactions(kind).List(gctx)
			if err != nil {
				return err
			}
			lists[i] = txns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	summary := aggregate.Accounting(lists[0], lists[1], lists[2], lists[3], v.clock.Now())
	return &summary, nil
}
