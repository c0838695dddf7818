package salespost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFields_Vietnamese(t *testing.T) {
	text := `Thông tin bất động sản:
- **Địa chỉ:** 12 Thanh Nhàn, Hai Bà Trưng, Hà Nội
- **Giá:** 7 tỷ
- **Diện tích:** 60 m²
- **Đặc điểm:** 4 tầng, mặt tiền 5m
- **Số điện thoại liên hệ:** 0901 234 567
- **Pháp lý:** Sổ đỏ chính chủ
- **Thời gian xem nhà:** 9:00 - 17:00 hằng ngày`

	f := ParseFields(text)

	assert.Equal(t, "12 Thanh Nhàn, Hai Bà Trưng, Hà Nội", f.Address)
	assert.Equal(t, "7 tỷ", f.Price)
	assert.Equal(t, "60 m²", f.Size)
	assert.Equal(t, "4 tầng, mặt tiền 5m", f.Features)
	assert.Equal(t, "0901 234 567", f.Contact)
	assert.Equal(t, "Sổ đỏ chính chủ", f.Legal)
	assert.Equal(t, "9:00 - 17:00 hằng ngày", f.ViewingTime)
}

func TestParseFields_English(t *testing.T) {
	text := "1. Address: 5 Le Loi, District 1\n2. Price: 12 billion VND\n3. Size: 120 sqm\n4. Features: pool, garden\n5. Contact number: 0988 000 111"

	f := ParseFields(text)

	assert.Equal(t, Fields{
		Address:  "5 Le Loi, District 1",
		Price:    "12 billion VND",
		Size:     "120 sqm",
		Features: "pool, garden",
		Contact:  "0988 000 111",
	}, f)
}

func TestParseFields_Edges(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Fields
	}{
		{"empty", "", Fields{}},
		{"no colon", "Không có thông tin", Fields{}},
		{"empty value", "Giá:\nĐịa chỉ: Quận 1", Fields{Address: "Quận 1"}},
		{"unknown label", "Hướng: Đông Nam\nGiá: 3 tỷ", Fields{Price: "3 tỷ"}},
		{"first value wins", "Giá: 3 tỷ\nGiá: 4 tỷ", Fields{Price: "3 tỷ"}},
		{"case and accents ignored", "GIA BAN: 2,5 ty", Fields{Price: "2,5 ty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFields(tt.text))
		})
	}
}

func TestFields_IsEmpty(t *testing.T) {
	assert.True(t, Fields{}.IsEmpty())
	assert.False(t, Fields{Price: "1"}.IsEmpty())
}
