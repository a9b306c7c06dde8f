package restock

import (
	"strings"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// Canales retail/punto de venta reconocidos (match case-insensitive).
var (
	retailChannelNames = []string{
		"retail store",
		"point of sale",
	}
	retailChannelHandles = []string{
		"retail-store",
		"retail_store",
		"retail",
		"point-of-sale",
		"point_of_sale",
		"shopify-pos",
		"shopify_pos",
		"pos",
	}
)

// PublishedToOnlineStore reporta si alguna publicación activa corresponde al
// canal Online Store: handle online-store/online_store o nombre que contenga
// "online store", siempre con isPublished verdadero.
func PublishedToOnlineStore(publications []entity.Publication) bool {
	for _, pub := range publications {
		if !pub.IsPublished {
			continue
		}
		handle := strings.ToLower(strings.TrimSpace(pub.ChannelHandle))
		name := strings.ToLower(strings.TrimSpace(pub.ChannelName))
		if handle == "online-store" || handle == "online_store" || strings.Contains(name, "online store") {
			return true
		}
	}
	return false
}

// PublishedToChannel reporta si alguna publicación activa coincide con alguno
// de los nombres o handles objetivo (case-insensitive).
func PublishedToChannel(publications []entity.Publication, targetNames, targetHandles []string) bool {
	names := make(map[string]struct{}, len(targetNames))
	for _, n := range targetNames {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			names[n] = struct{}{}
		}
	}
	handles := make(map[string]struct{}, len(targetHandles))
	for _, h := range targetHandles {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			handles[h] = struct{}{}
		}
	}
	if len(names) == 0 && len(handles) == 0 {
		return false
	}
	for _, pub := range publications {
		if !pub.IsPublished {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(pub.ChannelName))
		handle := strings.ToLower(strings.TrimSpace(pub.ChannelHandle))
		if _, ok := names[name]; ok {
			return true
		}
		if _, ok := handles[handle]; ok {
			return true
		}
	}
	return false
}

// PublishedToRetail reporta publicación activa en algún canal retail/POS de la
// lista fija reconocida.
func PublishedToRetail(publications []entity.Publication) bool {
	return PublishedToChannel(publications, retailChannelNames, retailChannelHandles)
}
