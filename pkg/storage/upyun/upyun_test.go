package upyun

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedSign(t *testing.T, password, msg string) string {
	t.Helper()
	sum := md5.Sum([]byte(password))
	mac := hmac.New(sha1.New, []byte(hex.EncodeToString(sum[:])))
	mac.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestSign(t *testing.T) {
	date := "Wed, 01 May 2024 10:00:00 GMT"
	got := Sign("op", "secret", "PUT", "/bucket/a.png", date, "abc")
	assert.Equal(t, "UPYUN op:"+expectedSign(t, "secret", "PUT&/bucket/a.png&"+date+"&abc"), got)

	got = Sign("op", "secret", "DELETE", "/bucket/a.png", date, "")
	assert.Equal(t, "UPYUN op:"+expectedSign(t, "secret", "DELETE&/bucket/a.png&"+date), got)
}

func TestUpyun_SendContent(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	content := []byte("png-bytes")

	var gotPath, gotAuth, gotMD5, gotDate, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotMD5 = r.Header.Get("Content-MD5")
		gotDate = r.Header.Get("Date")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := NewClient(&Config{
		Bucket:      "notes",
		Operator:    "op",
		Password:    "secret",
		Domain:      "img.example.com",
		APIEndpoint: srv.URL,
		CustomPath:  "obsidian-images",
	}, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	url, err := u.SendContent(context.Background(), "1700000000000-ab12cd34.png", content, "image/png")
	require.NoError(t, err)

	sum := md5.Sum(content)
	wantMD5 := hex.EncodeToString(sum[:])
	wantDate := "Wed, 01 May 2024 10:00:00 GMT"

	assert.Equal(t, "https://img.example.com/obsidian-images/1700000000000-ab12cd34.png", url)
	assert.Equal(t, "/notes/obsidian-images/1700000000000-ab12cd34.png", gotPath)
	assert.Equal(t, wantMD5, gotMD5)
	assert.Equal(t, wantDate, gotDate)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, content, gotBody)
	assert.Equal(t, "UPYUN op:"+expectedSign(t, "secret", "PUT&/notes/obsidian-images/1700000000000-ab12cd34.png&"+wantDate+"&"+wantMD5), gotAuth)
}

func TestUpyun_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"sign error","code":40100005}`))
	}))
	defer srv.Close()

	u, _ := NewClient(&Config{Bucket: "notes", Operator: "op", Password: "bad", Domain: "img.example.com", APIEndpoint: srv.URL})
	_, err := u.SendContent(context.Background(), "a.png", []byte("x"), "")
	require.Error(t, err)
	assert.Equal(t, 401, pkgerrors.StatusCode(err))

	err = u.Delete(context.Background(), "a.png")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.KindRemoteAPI))
}
