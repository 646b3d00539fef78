package application

import (
	"context"
	"errors"
	"testing"

	"registrar/events"
	"registrar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type processorFixture struct {
	configs       *MockGuildConfigService
	registrations *MockRegistrationService
	chat          *MockChatClient
	events        *recordingPublisher
	processor     *Processor
}

func newProcessorFixture() *processorFixture {
	f := &processorFixture{
		configs:       new(MockGuildConfigService),
		registrations: new(MockRegistrationService),
		chat:          new(MockChatClient),
		events:        &recordingPublisher{},
	}
	f.processor = NewProcessor(f.configs, f.registrations, f.chat, f.events, nil)
	return f
}

func (f *processorFixture) assertExpectations(t *testing.T) {
	f.configs.AssertExpectations(t)
	f.registrations.AssertExpectations(t)
	f.chat.AssertExpectations(t)
}

func TestProcessor_NoConfig(t *testing.T) {
	contents := []string{
		"Name: Alice, Age: 30",
		"Manual: needs review",
		"hello",
	}

	for _, content := range contents {
		t.Run(content, func(t *testing.T) {
			f := newProcessorFixture()
			ctx := context.Background()
			msg := testMessage(200, content)

			f.configs.On("GetConfig", ctx, int64(100)).Return(nil, nil)

			outcome := f.processor.Process(ctx, msg)

			assert.Equal(t, OutcomeNoConfig, outcome)
			f.registrations.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.chat.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
			f.chat.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
			f.chat.AssertNotCalled(t, "AddRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			assert.Empty(t, f.events.Events())
			f.assertExpectations(t)
		})
	}
}

func TestProcessor_ConfigLookupErrorDropsMessage(t *testing.T) {
	f := newProcessorFixture()
	ctx := context.Background()

	f.configs.On("GetConfig", ctx, int64(100)).Return(nil, errors.New("database is locked"))

	outcome := f.processor.Process(ctx, testMessage(200, "Name: Alice, Age: 30"))

	assert.Equal(t, OutcomeNoConfig, outcome)
	f.chat.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestProcessor_UnmatchedChannelIgnored(t *testing.T) {
	f := newProcessorFixture()
	ctx := context.Background()

	f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)

	outcome := f.processor.Process(ctx, testMessage(999, "Name: Alice, Age: 30"))

	assert.Equal(t, OutcomeIgnored, outcome)
	f.registrations.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestProcessor_Registration(t *testing.T) {
	ctx := context.Background()
	msg := testMessage(200, "Name: Alice, Age: 30")
	saved := &models.Registration{ID: 1, GuildID: 100, UserID: 42, Name: "Alice", Age: "30"}

	t.Run("success grants role once and replies once", func(t *testing.T) {
		f := newProcessorFixture()
		f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
		f.registrations.On("Register", ctx, int64(100), int64(42), "Alice", "30").Return(saved, nil)
		f.chat.On("AddRole", ctx, int64(100), int64(42), int64(600)).Return(nil).Once()
		f.chat.On("Reply", ctx, msg, ReplyRegistered).Return(nil).Once()

		outcome := f.processor.Process(ctx, msg)

		assert.Equal(t, OutcomeRegistered, outcome)
		f.chat.AssertNumberOfCalls(t, "AddRole", 1)
		f.chat.AssertNumberOfCalls(t, "Reply", 1)
		f.assertExpectations(t)

		emitted := f.events.Events()
		require.Len(t, emitted, 1)
		event, ok := emitted[0].(events.RegistrationCompletedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(1), event.RegistrationID)
		assert.Equal(t, int64(600), event.RoleID)
	})

	t.Run("role grant failure sends no reply", func(t *testing.T) {
		f := newProcessorFixture()
		f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
		f.registrations.On("Register", ctx, int64(100), int64(42), "Alice", "30").Return(saved, nil)
		f.chat.On("AddRole", ctx, int64(100), int64(42), int64(600)).Return(errors.New("missing permissions")).Once()

		outcome := f.processor.Process(ctx, msg)

		assert.Equal(t, OutcomeRoleGrantFailed, outcome)
		f.chat.AssertNumberOfCalls(t, "AddRole", 1)
		f.chat.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.events.Events())
		f.assertExpectations(t)
	})

	t.Run("storage failure replies generic error", func(t *testing.T) {
		f := newProcessorFixture()
		f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
		f.registrations.On("Register", ctx, int64(100), int64(42), "Alice", "30").Return(nil, errors.New("disk full"))
		f.chat.On("Reply", ctx, msg, ReplyStorageError).Return(nil).Once()

		outcome := f.processor.Process(ctx, msg)

		assert.Equal(t, OutcomeStorageFailed, outcome)
		f.chat.AssertNotCalled(t, "AddRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("unparseable form is ignored silently", func(t *testing.T) {
		f := newProcessorFixture()
		f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)

		outcome := f.processor.Process(ctx, testMessage(200, "Name: Alice"))

		assert.Equal(t, OutcomeParseFailed, outcome)
		f.registrations.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.chat.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("reply failure still counts as registered", func(t *testing.T) {
		f := newProcessorFixture()
		f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
		f.registrations.On("Register", ctx, int64(100), int64(42), "Alice", "30").Return(saved, nil)
		f.chat.On("AddRole", ctx, int64(100), int64(42), int64(600)).Return(nil)
		f.chat.On("Reply", ctx, msg, ReplyRegistered).Return(errors.New("unknown message"))

		assert.Equal(t, OutcomeRegistered, f.processor.Process(ctx, msg))
		f.assertExpectations(t)
	})
}

func TestProcessor_RegistrationChannelWinsWhenShared(t *testing.T) {
	f := newProcessorFixture()
	ctx := context.Background()

	config := testGuildConfig()
	config.ManualChannelID = config.RegistrationChannelID
	f.configs.On("GetConfig", ctx, int64(100)).Return(config, nil)

	// A manual review form in a shared channel is parsed as a registration and fails
	outcome := f.processor.Process(ctx, testMessage(200, "Manual: please"))

	assert.Equal(t, OutcomeParseFailed, outcome)
	f.chat.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestProcessor_ManualReview(t *testing.T) {
	ctx := context.Background()
	msg := testMessage(300, "Manual: needs review")
	alert := "<@&500> New manual review request from <@42>: needs review"

	t.Run("success alerts admins and replies", func(t *testing.T) {
		f := newProcessorFixture()
		f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
		f.chat.On("SendMessage", ctx, int64(400), alert).Return(nil).Once()
		f.chat.On("Reply", ctx, msg, ReplyManualReviewReceived).Return(nil).Once()

		outcome := f.processor.Process(ctx, msg)

		assert.Equal(t, OutcomeManualReviewSubmitted, outcome)
		f.assertExpectations(t)

		emitted := f.events.Events()
		require.Len(t, emitted, 1)
		event, ok := emitted[0].(events.ManualReviewSubmittedEvent)
		require.True(t, ok)
		assert.Equal(t, "needs review", event.Content)
	})

	t.Run("alert failure replies generic error", func(t *testing.T) {
		f := newProcessorFixture()
		f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
		f.chat.On("SendMessage", ctx, int64(400), alert).Return(errors.New("missing access")).Once()
		f.chat.On("Reply", ctx, msg, ReplyGenericError).Return(nil).Once()

		outcome := f.processor.Process(ctx, msg)

		assert.Equal(t, OutcomeAlertFailed, outcome)
		f.chat.AssertNotCalled(t, "Reply", ctx, msg, ReplyManualReviewReceived)
		assert.Empty(t, f.events.Events())
		f.assertExpectations(t)
	})

	t.Run("unparseable form is ignored silently", func(t *testing.T) {
		f := newProcessorFixture()
		f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)

		outcome := f.processor.Process(ctx, testMessage(300, "manual: x"))

		assert.Equal(t, OutcomeParseFailed, outcome)
		f.chat.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
		f.chat.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestFormatManualReviewAlert(t *testing.T) {
	assert.Equal(t, "<@&1> New manual review request from <@2>: hi", FormatManualReviewAlert(1, 2, "hi"))
}

func TestProcessor_FlowErrors(t *testing.T) {
	ctx := context.Background()
	lookupErr := errors.New("database is locked")
	saveErr := errors.New("disk full")

	tests := []struct {
		name    string
		setup   func(f *processorFixture)
		msg     models.QueuedMessage
		outcome Outcome
		wantErr error
	}{
		{
			name: "missing config",
			setup: func(f *processorFixture) {
				f.configs.On("GetConfig", ctx, int64(100)).Return(nil, nil)
			},
			msg:     testMessage(200, "Name: Alice, Age: 30"),
			outcome: OutcomeNoConfig,
			wantErr: ErrConfigNotFound,
		},
		{
			name: "config lookup error keeps cause",
			setup: func(f *processorFixture) {
				f.configs.On("GetConfig", ctx, int64(100)).Return(nil, lookupErr)
			},
			msg:     testMessage(200, "Name: Alice, Age: 30"),
			outcome: OutcomeNoConfig,
			wantErr: lookupErr,
		},
		{
			name: "registration form mismatch",
			setup: func(f *processorFixture) {
				f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
			},
			msg:     testMessage(200, "hello"),
			outcome: OutcomeParseFailed,
			wantErr: ErrParseFailure,
		},
		{
			name: "manual form mismatch",
			setup: func(f *processorFixture) {
				f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
			},
			msg:     testMessage(300, "manual: lowercase"),
			outcome: OutcomeParseFailed,
			wantErr: ErrParseFailure,
		},
		{
			name: "storage failure",
			setup: func(f *processorFixture) {
				f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
				f.registrations.On("Register", ctx, int64(100), int64(42), "Alice", "30").Return(nil, saveErr)
				f.chat.On("Reply", ctx, mock.Anything, ReplyStorageError).Return(nil)
			},
			msg:     testMessage(200, "Name: Alice, Age: 30"),
			outcome: OutcomeStorageFailed,
			wantErr: ErrStorage,
		},
		{
			name: "unmatched channel",
			setup: func(f *processorFixture) {
				f.configs.On("GetConfig", ctx, int64(100)).Return(testGuildConfig(), nil)
			},
			msg:     testMessage(999, "Name: Alice, Age: 30"),
			outcome: OutcomeIgnored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProcessorFixture()
			tt.setup(f)

			outcome, err := f.processor.process(ctx, tt.msg)

			assert.Equal(t, tt.outcome, outcome)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			f.assertExpectations(t)
		})
	}
}
