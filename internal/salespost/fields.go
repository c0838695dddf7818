package salespost

import (
	"strings"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/board"
)

// Fields is what the vision model read off a property photo. Missing fields stay empty.
type Fields struct {
	Address     string `json:"address,omitempty"`
	Price       string `json:"price,omitempty"`
	Size        string `json:"size,omitempty"`
	Features    string `json:"features,omitempty"`
	Contact     string `json:"contact,omitempty"`
	Legal       string `json:"legal,omitempty"`
	ViewingTime string `json:"viewing_time,omitempty"`
}

// IsEmpty reports whether nothing was extracted.
func (f Fields) IsEmpty() bool {
	return f == Fields{}
}

type fieldLabel struct {
	aliases []string
	set     func(*Fields, string)
}

// labels are matched in order against the folded key, by exact match or prefix.
// "thoi gian xem" comes before "gia" so viewing times are not taken for prices.
var labels = []fieldLabel{
	{[]string{"thoi gian xem", "lich xem", "viewing time", "viewing"}, func(f *Fields, v string) { f.ViewingTime = v }},
	{[]string{"dia chi", "vi tri", "address", "location"}, func(f *Fields, v string) { f.Address = v }},
	{[]string{"gia", "muc gia", "price"}, func(f *Fields, v string) { f.Price = v }},
	{[]string{"dien tich", "kich thuoc", "size", "area"}, func(f *Fields, v string) { f.Size = v }},
	{[]string{"dac diem", "tien ich", "dac trung", "features", "amenities"}, func(f *Fields, v string) { f.Features = v }},
	{[]string{"lien he", "so dien thoai", "sdt", "dien thoai", "contact", "phone"}, func(f *Fields, v string) { f.Contact = v }},
	{[]string{"phap ly", "giay to", "legal"}, func(f *Fields, v string) { f.Legal = v }},
}

// ParseFields reads "label: value" lines. Each line is split on its first colon; labels are
// matched in Vietnamese or English, ignoring case, diacritics and markdown decoration.
// Unknown labels are skipped and the first value seen for a field wins.
func ParseFields(text string) Fields {
	var f Fields
	seen := make(map[int]bool)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = foldLabel(key)
		value = strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "*_"))
		if key == "" || value == "" {
			continue
		}
		for i, l := range labels {
			if seen[i] || !matches(key, l.aliases) {
				continue
			}
			l.set(&f, value)
			seen[i] = true
			break
		}
	}
	return f
}

func foldLabel(key string) string {
	key = strings.ReplaceAll(key, "*", "")
	key = strings.TrimLeft(strings.TrimSpace(key), "-•#0123456789.) ")
	key = strings.ReplaceAll(board.Normalize(key), "đ", "d")
	return strings.Join(strings.Fields(key), " ")
}

func matches(key string, aliases []string) bool {
	for _, a := range aliases {
		if key == a || strings.HasPrefix(key, a+" ") {
			return true
		}
	}
	return false
}
