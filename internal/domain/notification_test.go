package domain_test

import (
	"testing"

	"github.com/avigneau/helloasso-bridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNotification_NumericAndStringIdentifiers(t *testing.T) {
	raw := []byte(`{
		"eventType": "Payment",
		"data": {
			"id": 123456,
			"state": "Authorized",
			"cashOutState": "Transfered",
			"amount": 1000,
			"order": {"id": "ord_789"}
		},
		"metadata": {"item_id": "7", "member_id": 42, "item_name": "Annual dues"}
	}`)

	n, err := domain.DecodeNotification(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.FlexString("123456"), n.Data.ID)
	assert.Equal(t, domain.FlexString("ord_789"), n.Data.Order.ID)
	require.NotNil(t, n.Metadata.ItemID)
	assert.Equal(t, domain.FlexInt(7), *n.Metadata.ItemID)
	require.NotNil(t, n.Metadata.MemberID)
	assert.Equal(t, domain.FlexInt(42), *n.Metadata.MemberID)

	assert.True(t, n.Relevant())
	assert.True(t, n.Settled())
	assert.False(t, n.Anonymous())
}

func TestDecodeNotification_RejectsMalformedItemID(t *testing.T) {
	raw := []byte(`{"eventType":"Payment","data":{"id":1,"state":"Authorized"},"metadata":{"item_id":"abc"}}`)

	_, err := domain.DecodeNotification(raw)
	assert.Error(t, err)
}

func TestNotification_Relevant(t *testing.T) {
	itemID := domain.FlexInt(7)

	tests := []struct {
		name     string
		n        domain.Notification
		relevant bool
	}{
		{
			name: "authorized payment with item id",
			n: domain.Notification{
				EventType: "Payment",
				Data:      domain.NotificationData{ID: "chk_1", State: "Authorized"},
				Metadata:  domain.NotificationMetadata{ItemID: &itemID},
			},
			relevant: true,
		},
		{
			name: "order event",
			n: domain.Notification{
				EventType: "Order",
				Data:      domain.NotificationData{ID: "chk_1", State: "Authorized"},
				Metadata:  domain.NotificationMetadata{ItemID: &itemID},
			},
			relevant: false,
		},
		{
			name: "refused payment",
			n: domain.Notification{
				EventType: "Payment",
				Data:      domain.NotificationData{ID: "chk_1", State: "Refused"},
				Metadata:  domain.NotificationMetadata{ItemID: &itemID},
			},
			relevant: false,
		},
		{
			name: "missing item id",
			n: domain.Notification{
				EventType: "Payment",
				Data:      domain.NotificationData{ID: "chk_1", State: "Authorized"},
			},
			relevant: false,
		},
		{
			name: "missing checkout id",
			n: domain.Notification{
				EventType: "Payment",
				Data:      domain.NotificationData{State: "Authorized"},
				Metadata:  domain.NotificationMetadata{ItemID: &itemID},
			},
			relevant: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.relevant, tt.n.Relevant())
		})
	}
}

func TestNotification_Anonymous(t *testing.T) {
	memberID := domain.FlexInt(42)

	n := domain.Notification{}
	assert.True(t, n.Anonymous())

	n.Metadata.MemberID = &memberID
	assert.False(t, n.Anonymous())
}
