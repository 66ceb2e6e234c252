package service

import (
	"strings"

	"github.com/ikkim/giftbox-backend/internal/app/model"
)

// FilterGiftBoxes keeps the requests whose owner email, recipient name or
// phone contains term, ignoring case. Order is preserved and boxes is never
// modified; an empty term returns boxes as is.
func FilterGiftBoxes(boxes []model.GiftBox, term string) []model.GiftBox {
	if term == "" {
		return boxes
	}

	needle := strings.ToLower(term)
	matched := make([]model.GiftBox, 0, len(boxes))
	for _, box := range boxes {
		if containsFold(box.OwnerEmail(), needle) ||
			containsFold(model.StringValue(box.RecipientName), needle) ||
			containsFold(model.StringValue(box.Phone), needle) {
			matched = append(matched, box)
		}
	}
	return matched
}

func containsFold(haystack, lowerNeedle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
