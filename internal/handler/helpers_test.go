package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/stretchr/testify/require"
)

const ownerEmail = "owner@example.com"

type formFile struct {
	name string
	data string
}

func multipartRequest(t *testing.T, method, target string, fields map[string][]string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vals := range fields {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(imagesField, f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(method, target, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func asUser(r *http.Request, email string) *http.Request {
	return r.WithContext(auth.WithUser(r.Context(), &auth.User{ID: "u-" + email, Email: email}))
}

func boardFixture() []*domain.Listing {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return []*domain.Listing{
		{ID: "l3", Title: "Nhà phố Thanh Nhàn", Price: "7 tỷ", Description: "Quận Hai Bà Trưng, Hà Nội", Creator: ownerEmail, Date: base.Add(2 * time.Hour),
			Images: []string{"http://blob/l3/a.jpg", "http://blob/l3/b.jpg", "http://blob/l3/c.jpg"}},
		{ID: "l2", Title: "Căn hộ Quận 7", Price: "3,5 tỷ", Description: "TP Hồ Chí Minh", Creator: "other@example.com", Date: base.Add(time.Hour)},
		{ID: "l1", Title: "Đất nền Long An", Price: "900 triệu", Description: "Gần Hà Nội?", Creator: ownerEmail, Date: base},
	}
}
