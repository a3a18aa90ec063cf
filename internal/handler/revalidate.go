package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/MohannadDev/protoshop-dev/internal/shopify"
)

// topicHeader carries the commerce service's change notification topic.
const topicHeader = "X-Shopify-Topic"

var (
	productTopics = map[string]struct{}{
		"products/create": {},
		"products/delete": {},
		"products/update": {},
	}
	collectionTopics = map[string]struct{}{
		"collections/create": {},
		"collections/delete": {},
		"collections/update": {},
	}
)

// Revalidate handles change notifications from the commerce service. It
// always answers 200: webhooks retry on other statuses and a stale cache is
// not worth a redelivery storm. An invalid secret is logged and ignored.
func (h *Handler) Revalidate(w http.ResponseWriter, r *http.Request) {
	lg := zctx.From(r.Context())
	topic := r.Header.Get(topicHeader)
	if topic == "" {
		topic = "unknown"
	}

	if secret := r.URL.Query().Get("secret"); secret == "" || secret != h.secret {
		lg.Error("Invalid revalidation secret", zap.String("topic", topic))
		writeRevalidation(w, false)
		return
	}

	_, isProduct := productTopics[topic]
	_, isCollection := collectionTopics[topic]
	if !isProduct && !isCollection {
		lg.Info("Ignoring revalidation topic", zap.String("topic", topic))
		writeRevalidation(w, false)
		return
	}

	// Only the tag the topic names is dropped; entries carrying the other
	// tag stay valid.
	if isProduct {
		h.cache.Invalidate(shopify.TagProducts)
	}
	if isCollection {
		h.cache.Invalidate(shopify.TagCollections)
	}
	lg.Info("Revalidated cached reads", zap.String("topic", topic))
	writeRevalidation(w, true)
}

// writeRevalidation writes the webhook acknowledgement. The HTTP status is
// always 200; the body says whether anything was invalidated.
func writeRevalidation(w http.ResponseWriter, revalidated bool) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	e.Int(http.StatusOK)
	if revalidated {
		e.FieldStart("revalidated")
		e.Bool(true)
		e.FieldStart("now")
		e.Int64(time.Now().UnixMilli())
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(e.Bytes())
}
