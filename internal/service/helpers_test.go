package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/recordstore"
	"github.com/dtroode/m2m-server/internal/repository/memory"
	"github.com/dtroode/m2m-server/internal/testutil"
)

func newStore(t *testing.T) *recordstore.Store {
	t.Helper()
	return recordstore.New(memory.NewDeviceRecordRepository(), testutil.MakeNoopLogger())
}

func seedProfile(t *testing.T, store *recordstore.Store, name, email string) model.UserProfile {
	t.Helper()
	profile := model.UserProfile{ID: uuid.New(), Name: name, Email: email}
	require.NoError(t, store.SaveProfile(context.Background(), profile))
	return profile
}

func payment(date, due, giftCard string) model.Payment {
	return model.Payment{
		Date:           date,
		DueAmount:      decimal.RequireFromString(due),
		GiftCardAmount: decimal.RequireFromString(giftCard),
	}
}
