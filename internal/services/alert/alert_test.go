package alert

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vv-overseas/edu-admin/internal/lib/smtp"
	"github.com/vv-overseas/edu-admin/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func lockoutBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.SecurityAlert{
		Email:      "sub@example.com",
		EmployeeID: "EMP001",
		Name:       "Test Employee",
		IPAddress:  "10.0.0.1",
		OccurredAt: time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
	return body
}

func TestService_SendLockoutAlert(t *testing.T) {
	recipients := []string{"admin1@example.com", "admin2@example.com"}

	tests := []struct {
		name          string
		body          []byte
		recipients    []string
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name:       "success - alert delivered to all recipients",
			recipients: recipients,
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				tr.On("GetSMTPUser").Return("noreply@example.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "admin1@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "admin2@example.com").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
			},
		},
		{
			name:       "invalid JSON",
			body:       []byte(`invalid json`),
			recipients: recipients,
			setupMocks: func(_ *MockTransport) {
				// при битом сообщении транспорт не трогаем
			},
			expectedError: true,
			errorMessage:  "error unmarshalling security alert",
		},
		{
			name:       "no recipients configured - alert dropped without error",
			recipients: nil,
			setupMocks: func(_ *MockTransport) {},
		},
		{
			name:       "SMTP connection error",
			recipients: recipients,
			setupMocks: func(tr *MockTransport) {
				tr.On("GetSMTPUser").Return("noreply@example.com")
				tr.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
		{
			name:       "SMTP Rcpt error",
			recipients: recipients,
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)

				tr.On("GetSMTPUser").Return("noreply@example.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "admin1@example.com").Return(errors.New("rcpt error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: true,
			errorMessage:  "rcpt error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := New(transport, tt.recipients, newNoopLogger())

			tt.setupMocks(transport)

			body := tt.body
			if body == nil {
				body = lockoutBody(t)
			}

			err := service.SendLockoutAlert(body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}

func TestService_SendLockoutAlert_BodyMentionsAccount(t *testing.T) {
	transport := new(MockTransport)
	service := New(transport, []string{"admin@example.com"}, newNoopLogger())

	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	var written []byte
	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "noreply@example.com").Return(nil).Once()
	mockClient.On("Rcpt", "admin@example.com").Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).
		Run(func(args mock.Arguments) {
			written = args.Get(0).([]byte)
		}).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()

	assert.NoError(t, service.SendLockoutAlert(lockoutBody(t)))

	msg := string(written)
	assert.Contains(t, msg, "Subject: Account locked: sub@example.com")
	assert.Contains(t, msg, "employee EMP001")
	assert.Contains(t, msg, "Source IP: 10.0.0.1")
}
