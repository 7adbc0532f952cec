package clientinfo

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/khanghh/kattend/params"
)

// ClientInfo is the attribution and classification of one request, computed
// once from the original request.
type ClientInfo struct {
	IP        string
	UserAgent string
	Browser   string
	Device    string
	Location  string
}

func New(header func(string) string, peerAddr string) ClientInfo {
	userAgent := strings.TrimSpace(header(HeaderUserAgent))
	if userAgent == "" {
		userAgent = params.UnknownValue
	}
	return ClientInfo{
		IP:        ResolveIP(header, peerAddr),
		UserAgent: userAgent,
		Browser:   ParseBrowser(userAgent),
		Device:    ParseDevice(userAgent),
		Location:  ResolveLocation(header),
	}
}

func FromFiber(ctx *fiber.Ctx) ClientInfo {
	header := func(key string) string {
		return utils.CopyString(ctx.Get(key))
	}
	return New(header, ctx.Context().RemoteAddr().String())
}
