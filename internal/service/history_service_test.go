package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/haierkeys/obsidian-halo-publisher/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_Cap(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(newMemStore())

	for i := 0; i < 60; i++ {
		require.NoError(t, svc.Append(ctx, domain.PublishHistoryRecord{
			FileName: fmt.Sprintf("note-%d.md", i),
			Success:  true,
		}))
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, domain.MaxPublishHistory)
	assert.Equal(t, "note-59.md", list[0].FileName)
	assert.Equal(t, "note-10.md", list[len(list)-1].FileName)

	require.NoError(t, svc.Clear(ctx))
	list, _ = svc.List(ctx)
	assert.Empty(t, list)
}

func TestPrependHistory_Property(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("newest first and capped", prop.ForAll(
		func(n int) bool {
			var list []domain.PublishHistoryRecord
			for i := 0; i < n; i++ {
				list = prependHistory(list, domain.PublishHistoryRecord{PostName: fmt.Sprint(i)}, domain.MaxPublishHistory)
			}
			want := min(n, domain.MaxPublishHistory)
			if len(list) != want {
				return false
			}
			for i, r := range list {
				if r.PostName != fmt.Sprint(n-1-i) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}
