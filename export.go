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
	"io"

	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/internal/export"
	"github.com/nitesh7079/veneer/model"
)

// Export writes the grouped view of a collection as an xlsx workbook.
func (v *Veneer) Export(ctx context.Context, kind model.Kind, c aggregate.Criteria, w io.Writer) error {
	ctx, span := tracer.Start(ctx, "Exporting transactions")
	defer span.End()

	view, err := v.SummarizeTransactions(ctx, kind, c)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return export.Write(w, export.Report{
		Kind:        kind,
		Groups:      view.Groups,
		Totals:      view.Totals,
		GeneratedAt: v.clock.Now(),
	})
}
