package service

import (
	"fmt"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "礼盒申请"

var exportHeaders = []string{
	"编号", "申请人", "礼盒类型", "领取方式", "收件人", "联系电话", "收货地址", "状态", "快递单号", "申请时间",
}

// BuildGiftBoxWorkbook renders boxes as a single-sheet xlsx file
func BuildGiftBoxWorkbook(boxes []model.GiftBox) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for i, box := range boxes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			box.ID,
			box.OwnerEmail(),
			box.BoxType.Label(),
			box.DeliveryType.Label(),
			model.StringValue(box.RecipientName),
			model.StringValue(box.Phone),
			model.StringValue(box.Address),
			box.Status.Label(),
			model.StringValue(box.TrackingNumber),
			box.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
