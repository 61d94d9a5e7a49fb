package contentguard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campus-trust-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockClassifier struct{ mock.Mock }

func (m *mockClassifier) Classify(ctx context.Context, input string) (domain.Verdict, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Verdict), args.Error(1)
}

func TestModerate_NoCredentialFailsOpen(t *testing.T) {
	svc := NewService(nil, time.Second)

	v := svc.Moderate(context.Background(), "free money scam", "totally a scam")
	assert.False(t, v.Flagged)
	assert.Empty(t, v.Reason)
}

func TestModerate_ClassifierErrorFailsOpen(t *testing.T) {
	cl := &mockClassifier{}
	cl.On("Classify", mock.Anything, mock.Anything).
		Return(domain.Verdict{}, errors.New("timeout"))

	svc := NewService(cl, time.Second)
	v := svc.Moderate(context.Background(), "title", "description")
	assert.False(t, v.Flagged)
	cl.AssertExpectations(t)
}

func TestModerate_FlaggedVerdictPassesThrough(t *testing.T) {
	cl := &mockClassifier{}
	cl.On("Classify", mock.Anything, "title\n\ndescription").
		Return(domain.Verdict{Flagged: true, Reason: "spam/scam"}, nil)

	svc := NewService(cl, time.Second)
	v := svc.Moderate(context.Background(), "title", "description")
	assert.True(t, v.Flagged)
	assert.Equal(t, "spam/scam", v.Reason)
}

func TestModerate_CallIsBoundedByTimeout(t *testing.T) {
	cl := &mockClassifier{}
	cl.On("Classify", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, ok := ctx.Deadline()
			assert.True(t, ok, "classifier context must carry a deadline")
		}).
		Return(domain.Verdict{}, nil)

	svc := NewService(cl, 50*time.Millisecond)
	svc.Moderate(context.Background(), "t", "d")
	cl.AssertExpectations(t)
}
