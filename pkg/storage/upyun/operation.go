package upyun

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/util"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SendContent 上传内容，返回公开访问地址
func (u *Upyun) SendContent(ctx context.Context, fileKey string, content []byte, cType string) (string, error) {
	fileKey = fileurl.ObjectKey(u.Config.CustomPath, fileKey)
	uri := u.uri(fileKey)
	contentMD5 := util.EncodeMD5Bytes(content)
	date := u.date()

	req := u.rc.R().
		SetContext(ctx).
		SetHeader("Date", date).
		SetHeader("Content-MD5", contentMD5).
		SetHeader("Authorization", Sign(u.Config.Operator, u.Config.Password, http.MethodPut, uri, date, contentMD5)).
		SetBody(content)
	if cType != "" {
		req.SetHeader("Content-Type", cType)
	}

	resp, err := req.Put(uri)
	if err := checkResponse(resp, err, "upyun upload"); err != nil {
		return "", err
	}

	u.logger.Debug("upyun upload",
		zap.String(logger.FieldBucket, u.Config.Bucket),
		zap.String(logger.FieldFileKey, fileKey),
		zap.Int(logger.FieldSize, len(content)))

	return fileurl.JoinURL(u.Config.Domain, fileKey), nil
}

// Delete 删除对象
func (u *Upyun) Delete(ctx context.Context, fileKey string) error {
	fileKey = fileurl.ObjectKey(u.Config.CustomPath, fileKey)
	uri := u.uri(fileKey)
	date := u.date()

	resp, err := u.rc.R().
		SetContext(ctx).
		SetHeader("Date", date).
		SetHeader("Authorization", Sign(u.Config.Operator, u.Config.Password, http.MethodDelete, uri, date, "")).
		Delete(uri)
	return checkResponse(resp, err, "upyun delete")
}

// uri returns "/{bucket}/{escaped key}"
func (u *Upyun) uri(fileKey string) string {
	segments := strings.Split(fileKey, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/" + u.Config.Bucket + "/" + strings.Join(segments, "/")
}

func (u *Upyun) date() string {
	return u.now().UTC().Format(http.TimeFormat)
}

func checkResponse(resp *resty.Response, err error, action string) error {
	if err != nil {
		return pkgerrors.NewNetworkError(action, err)
	}
	if !resp.IsSuccess() {
		msg := strings.TrimSpace(string(resp.Body()))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return pkgerrors.NewRemoteAPIError(resp.StatusCode(), fmt.Sprintf("%s: HTTP %d: %s", action, resp.StatusCode(), msg))
	}
	return nil
}
