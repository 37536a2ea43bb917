package mapper

import (
	"strings"

	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/resolver"
)

const (
	davNamespace     = "DAV:"
	propResourceType = "resourcetype"
	propDisplayName  = "displayname"
	collectionMarker = "collection"
)

type Mapper struct {
	r *resolver.Resolver
}

func New(r *resolver.Resolver) *Mapper {
	return &Mapper{r: r}
}

func isDavProp(p entity.Property, name string) bool {
	return p.Name == name && (p.Space == davNamespace || len(p.Space) == 0)
}

// Map builds a Resource from one multistatus record, it never fails.
func (m *Mapper) Map(href string, props []entity.Property) *entity.Resource {
	res := &entity.Resource{
		URI:  m.r.HrefToURI(href),
		Href: href,
	}
	for _, p := range props {
		if len(p.Value) == 0 {
			continue
		}
		switch {
		case isDavProp(p, propResourceType):
			res.IsCollection = strings.Contains(p.Value, collectionMarker)
		case isDavProp(p, propDisplayName):
			res.DisplayName = p.Value
		default:
			res.Properties = append(res.Properties, p)
		}
	}
	if len(res.DisplayName) == 0 {
		res.DisplayName = resolver.LastSegmentName(m.r.ToCanonicalRelative(href))
	}
	return res
}
