package entity

// Property 未被映射到Resource字段的服务端属性
type Property struct {
	Space string `json:"space,omitempty"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Resource struct {
	URI          string     `json:"uri"`
	Href         string     `json:"href"`
	IsCollection bool       `json:"is_collection"`
	DisplayName  string     `json:"display_name"`
	Properties   []Property `json:"properties,omitempty"`
}

// Property returns the first bag entry with the given local name.
func (r *Resource) Property(name string) (string, bool) {
	for _, p := range r.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
