package notice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/roadwatch/internal/model"
)

func TestMemoryStore_NewerNoticeReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Latest(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoNotice)

	require.NoError(t, s.Publish(ctx, model.Notice{SessionID: "s1", Level: model.NoticeLoading, Message: "Sending..."}))
	require.NoError(t, s.Publish(ctx, model.Notice{SessionID: "s1", Level: model.NoticeSuccess, Message: "Mail Sent Successfully"}))
	require.NoError(t, s.Publish(ctx, model.Notice{SessionID: "s2", Level: model.NoticeError, Message: "Mail Failed"}))

	n, err := s.Latest(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.NoticeSuccess, n.Level)

	require.NoError(t, s.Clear(ctx, "s1"))
	_, err = s.Latest(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoNotice)

	n, err = s.Latest(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "Mail Failed", n.Message)
}
