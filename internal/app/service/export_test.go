package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildGiftBoxWorkbook(t *testing.T) {
	createdAt := time.Date(2026, 1, 20, 9, 30, 0, 0, time.Local)
	boxes := []model.GiftBox{
		{
			ID:             7,
			User:           &model.User{Email: "e0007@example.com"},
			BoxType:        model.BoxTypeStandard,
			DeliveryType:   model.DeliveryMail,
			RecipientName:  strPtr("张三"),
			Phone:          strPtr("13800000000"),
			Address:        strPtr("北京市朝阳区"),
			Status:         model.GiftBoxStatusShipped,
			TrackingNumber: strPtr("SF1234567890"),
			CreatedAt:      createdAt,
		},
		{
			ID:           8,
			BoxType:      model.BoxTypeHalal,
			DeliveryType: model.DeliveryPickup,
			Status:       model.GiftBoxStatusPending,
			CreatedAt:    createdAt,
		},
	}

	data, err := BuildGiftBoxWorkbook(boxes)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exportSheetName}, f.GetSheetList())

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{
		"7", "e0007@example.com", "常规", "线上邮寄", "张三", "13800000000",
		"北京市朝阳区", "已发货", "SF1234567890", "2026-01-20 09:30:00",
	}, rows[1])
	assert.Equal(t, "8", rows[2][0])
	assert.Equal(t, "清真", rows[2][2])
	assert.Equal(t, "线下领取", rows[2][3])
	assert.Equal(t, "待发货", rows[2][7])
}

func TestBuildGiftBoxWorkbook_Empty(t *testing.T) {
	data, err := BuildGiftBoxWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
