package salespost

import "errors"

// The messages are shown to users as-is.
var (
	ErrExtraction = errors.New("Không thể xử lý hình ảnh")
	ErrGeneration = errors.New("Không thể tạo bài đăng bán hàng")
)
