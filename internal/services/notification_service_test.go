package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"farmstore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_OrderCreated(t *testing.T) {
	notifier := new(MockNotifier)
	svc := services.NewNotificationService(notifier, nil)

	body, err := json.Marshal(services.OrderCreatedEvent{OrderID: 9, CustomerName: "Efua", TotalAmount: "52.50", ItemCount: 2})
	require.NoError(t, err)

	notifier.On("Notify", mock.Anything, "New order #9", mock.MatchedBy(func(text string) bool {
		return assert.Contains(t, text, "Customer: Efua") && assert.Contains(t, text, "Total: 52.50")
	})).Return(nil).Once()

	require.NoError(t, svc.HandleEvent(context.Background(), services.EventOrderCreated, body))
	notifier.AssertExpectations(t)
}

func TestNotificationService_OtherEvents(t *testing.T) {
	notifier := new(MockNotifier)
	svc := services.NewNotificationService(notifier, nil)

	assert.NoError(t, svc.HandleEvent(context.Background(), services.EventPaymentUpdated, []byte(`{"order_id":1,"status":"completed","paid":true}`)))
	assert.NoError(t, svc.HandleEvent(context.Background(), "stock.changed", []byte(`{}`)))
	assert.Error(t, svc.HandleEvent(context.Background(), services.EventOrderCreated, []byte(`{`)))
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}
