package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

// NormalizeRaw превращает "сырую" запись из внешнего API в Listing.
// Здесь, и только здесь, сводятся легаси-поля: type/propertyType, status/category,
// AgentName/agentName, цена строкой, картинки JSON-текстом.
// Битые поля не приводят к ошибке, а деградируют к нулевым значениям.
func NormalizeRaw(raw map[string]any) domain.Listing {
	l := domain.Listing{
		ID:        firstString(raw, "id", "_id", "ID", "listingId"),
		Title:     firstString(raw, "title", "Title"),
		Name:      firstString(raw, "name", "Name"),
		City:      firstString(raw, "city", "City"),
		State:     firstString(raw, "state", "State", "region"),
		Location:  firstString(raw, "location", "Location", "address"),
		Purpose:   firstString(raw, "purpose", "Purpose"),
		Status:    firstString(raw, "status", "Status"),
		AgentID:   firstString(raw, "agentId", "agent_id", "AgentId", "AgentID"),
		AgentName: firstString(raw, "agentName", "AgentName", "agent_name"),
	}

	l.PropertyType = NormalizePropertyType(firstString(raw, "propertyType", "type", "property_type", "Type"))

	l.Category = firstString(raw, "category", "Category", "dealType")
	if l.Category == "" && isSaleOrRent(l.Status) {
		l.Category = l.Status
	}

	if agent, ok := raw["agent"].(map[string]any); ok {
		if l.AgentName == "" {
			l.AgentName = firstString(agent, "name", "Name", "fullName")
		}
		if l.AgentID == "" {
			l.AgentID = firstString(agent, "id", "_id")
		}
	}

	l.Price = CoercePrice(raw["price"])
	l.Bedrooms = optionalInt(raw, "bedrooms", "Bedrooms", "beds")
	l.Bathrooms = optionalInt(raw, "bathrooms", "Bathrooms", "baths")
	l.Area = optionalFloat(raw, "area", "Area", "size")
	l.Latitude = optionalFloat(raw, "latitude", "lat")
	l.Longitude = optionalFloat(raw, "longitude", "lng", "lon")
	l.Images = CoerceImages(firstPresent(raw, "images", "Images", "photos"))
	l.CreatedAt = coerceTime(firstPresent(raw, "createdAt", "created_at"))

	return Finalize(l)
}

// Finalize дозаполняет производные поля уже типизированного объявления.
func Finalize(l domain.Listing) domain.Listing {
	if l.Location == "" {
		l.Location = DeriveLocation(l.City, l.State)
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	if math.IsNaN(l.Price) || math.IsInf(l.Price, 0) {
		l.Price = 0
	}
	return l
}

// DeriveLocation - "city, state" с учетом пустых частей.
func DeriveLocation(city, state string) string {
	city, state = strings.TrimSpace(city), strings.TrimSpace(state)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

// NormalizePropertyType приводит "APARTMENT"/"apartment" к "Apartment".
// Смешанный регистр ("TownHouse") оставляем как есть.
func NormalizePropertyType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	if t == strings.ToLower(t) || t == strings.ToUpper(t) {
		return cases.Title(language.English).String(strings.ToLower(strings.ReplaceAll(t, "_", " ")))
	}
	return t
}

// CoercePrice приводит цену к числу. Отсутствующее или нечисловое значение дает 0.
func CoercePrice(v any) float64 {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CoerceImages принимает срез, JSON-текст со срезом или одну строку.
func CoerceImages(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, val...)
	case []any:
		images := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				images = append(images, s)
			}
		}
		return images
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return []string{}
		}
		if strings.HasPrefix(s, "[") {
			var images []string
			if err := sonic.UnmarshalString(s, &images); err == nil {
				return images
			}
			return []string{}
		}
		return []string{s}
	default:
		return []string{}
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func firstPresent(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case json.Number:
			return v.String()
		case fmt.Stringer:
			return v.String()
		}
	}
	return ""
}

func optionalFloat(raw map[string]any, keys ...string) *float64 {
	f, ok := toFloat(firstPresent(raw, keys...))
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func optionalInt(raw map[string]any, keys ...string) *int {
	f := optionalFloat(raw, keys...)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

func coerceTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isSaleOrRent(s string) bool {
	n := NormalizeCategory(s)
	return n == "for sale" || n == "for rent"
}
