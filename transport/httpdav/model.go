package httpdav

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/transport"
)

const (
	davNamespace = "DAV:"
	xmlHeader    = `<?xml version="1.0" encoding="utf-8"?>` + "\n"
)

// propfindRequest allprop请求体
type propfindRequest struct {
	XMLName xml.Name  `xml:"D:propfind"`
	XMLNS   string    `xml:"xmlns:D,attr"`
	AllProp *struct{} `xml:"D:allprop"`
}

type lockInfoRequest struct {
	XMLName   xml.Name   `xml:"D:lockinfo"`
	XMLNS     string     `xml:"xmlns:D,attr"`
	LockScope lockScope  `xml:"D:lockscope"`
	LockType  lockType   `xml:"D:locktype"`
	Owner     *lockOwner `xml:"D:owner,omitempty"`
}

type lockScope struct {
	Exclusive *struct{} `xml:"D:exclusive"`
}

type lockType struct {
	Write *struct{} `xml:"D:write"`
}

type lockOwner struct {
	Href string `xml:"D:href"`
}

// 解析服务端返回时按命名空间匹配, 不依赖具体前缀
type multistatus struct {
	XMLName   xml.Name     `xml:"DAV: multistatus"`
	Responses []msResponse `xml:"DAV: response"`
}

type msResponse struct {
	Hrefs     []string     `xml:"DAV: href"`
	Status    string       `xml:"DAV: status"`
	Propstats []msPropstat `xml:"DAV: propstat"`
}

type msPropstat struct {
	Prop   msProp `xml:"DAV: prop"`
	Status string `xml:"DAV: status"`
}

type msProp struct {
	Items []msPropItem `xml:",any"`
}

type msPropItem struct {
	XMLName  xml.Name
	InnerXML string `xml:",innerxml"`
	Text     string `xml:",chardata"`
}

type lockDiscoveryProp struct {
	XMLName xml.Name `xml:"DAV: prop"`
	Tokens  []string `xml:"DAV: lockdiscovery>activelock>locktoken>href"`
}

func (p *msPropItem) value() string {
	inner := strings.TrimSpace(p.InnerXML)
	if strings.Contains(inner, "<") && !strings.HasPrefix(inner, "<![CDATA[") {
		return inner
	}
	return strings.TrimSpace(p.Text)
}

// statusCode parses "HTTP/1.1 200 OK", an absent status counts as 200.
func statusCode(line string) int {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 200
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func encodeRequest(v interface{}) ([]byte, error) {
	raw, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), raw...), nil
}

func decodeMultistatus(raw []byte) (*multistatus, error) {
	ms := &multistatus{}
	if err := xml.Unmarshal(raw, ms); err != nil {
		return nil, fmt.Errorf("decode multistatus failed, err:%w", err)
	}
	return ms, nil
}

// parseRecords keeps only the properties reported with status 200.
func parseRecords(raw []byte) ([]*transport.Record, error) {
	ms, err := decodeMultistatus(raw)
	if err != nil {
		return nil, err
	}
	rs := make([]*transport.Record, 0, len(ms.Responses))
	for _, rsp := range ms.Responses {
		if len(rsp.Hrefs) == 0 {
			continue
		}
		if len(rsp.Status) > 0 && !isSuccess(statusCode(rsp.Status)) {
			continue
		}
		rec := &transport.Record{Href: strings.TrimSpace(rsp.Hrefs[0])}
		matched := len(rsp.Propstats) == 0
		for _, ps := range rsp.Propstats {
			if statusCode(ps.Status) != 200 {
				continue
			}
			matched = true
			for i := range ps.Prop.Items {
				item := &ps.Prop.Items[i]
				rec.Props = append(rec.Props, entity.Property{
					Space: item.XMLName.Space,
					Name:  item.XMLName.Local,
					Value: item.value(),
				})
			}
		}
		if !matched {
			continue
		}
		rs = append(rs, rec)
	}
	return rs, nil
}

// firstFailure returns the first non 2xx status found in a multistatus body, 0 if none.
func firstFailure(raw []byte) (int, error) {
	ms, err := decodeMultistatus(raw)
	if err != nil {
		return 0, err
	}
	for _, rsp := range ms.Responses {
		if len(rsp.Status) > 0 && !isSuccess(statusCode(rsp.Status)) {
			return statusCode(rsp.Status), nil
		}
		for _, ps := range rsp.Propstats {
			if code := statusCode(ps.Status); !isSuccess(code) {
				return code, nil
			}
		}
	}
	return 0, nil
}

func writeEscaped(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}

// buildPropertyUpdate 生成PROPPATCH的set请求体, 空命名空间显式写出xmlns=""
func buildPropertyUpdate(props []entity.Property) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString(xmlHeader)
	buf.WriteString(`<D:propertyupdate xmlns:D="DAV:"><D:set><D:prop>`)
	for _, p := range props {
		buf.WriteString("<")
		buf.WriteString(p.Name)
		buf.WriteString(` xmlns="`)
		writeEscaped(buf, p.Space)
		buf.WriteString(`">`)
		writeEscaped(buf, p.Value)
		buf.WriteString("</")
		buf.WriteString(p.Name)
		buf.WriteString(">")
	}
	buf.WriteString(`</D:prop></D:set></D:propertyupdate>`)
	return buf.Bytes()
}

func parseLockToken(header string, body []byte) string {
	token := strings.TrimSpace(header)
	token = strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
	if len(token) > 0 {
		return token
	}
	prop := &lockDiscoveryProp{}
	if err := xml.Unmarshal(body, prop); err != nil {
		return ""
	}
	for _, item := range prop.Tokens {
		if item = strings.TrimSpace(item); len(item) > 0 {
			return item
		}
	}
	return ""
}
