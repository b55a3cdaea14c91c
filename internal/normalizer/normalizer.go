// Package normalizer turns loosely typed remote documents into model records.
// Nested attributes may arrive either structured or as JSON text; every
// function here resolves malformed input to a safe default instead of failing.
package normalizer

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"

	"github.com/jwalitptl/marketplace-admin/internal/model"
)

// Provider never fails; unreadable nested attributes fall back to empty values.
func Provider(doc map[string]interface{}) model.ServiceProvider {
	var p model.ServiceProvider
	_ = decode(without(doc, "availability", "socialLinks", "reviewList", "licenseInfo"), &p)

	p.Availability = Availability(doc["availability"])
	p.SocialLinks = SocialLinks(doc["socialLinks"])
	p.ReviewList = Reviews(doc["reviewList"])
	p.LicenseInfo = License(doc["licenseInfo"])

	p.Services = nonNil(p.Services)
	p.CNIC = nonNil(p.CNIC)
	p.Gallery = nonNil(p.Gallery)
	p.Certifications = nonNil(p.Certifications)
	return p
}

func Providers(docs []model.Document) []model.ServiceProvider {
	out := make([]model.ServiceProvider, 0, len(docs))
	for _, d := range docs {
		out = append(out, Provider(d))
	}
	return out
}

// Appointment decodes an appointment and maps legacy status labels.
func Appointment(doc map[string]interface{}) model.Appointment {
	var a model.Appointment
	_ = decode(without(doc, "status"), &a)
	if raw, ok := doc["status"].(string); ok {
		a.Status = model.NormalizeAppointmentStatus(raw)
	}
	return a
}

func Appointments(docs []model.Document) []model.Appointment {
	out := make([]model.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, Appointment(d))
	}
	return out
}

func Patient(doc map[string]interface{}) model.UserModel {
	var u model.UserModel
	_ = decode(doc, &u)
	return u
}

func Patients(docs []model.Document) []model.UserModel {
	out := make([]model.UserModel, 0, len(docs))
	for _, d := range docs {
		out = append(out, Patient(d))
	}
	return out
}

func Service(doc map[string]interface{}) model.Service {
	var s model.Service
	_ = decode(doc, &s)
	return s
}

func Services(docs []model.Document) []model.Service {
	out := make([]model.Service, 0, len(docs))
	for _, d := range docs {
		out = append(out, Service(d))
	}
	return out
}

// SocialLinks accepts a JSON object or array text, a single object or a list.
func SocialLinks(v interface{}) []model.SocialLink {
	links := []model.SocialLink{}
	for _, item := range objectList(v) {
		var link model.SocialLink
		if decode(item, &link) == nil {
			links = append(links, link)
		}
	}
	return links
}

// Reviews decodes a list whose elements may be JSON text. Anything that is
// not a list yields no reviews; malformed elements are dropped.
func Reviews(v interface{}) []model.Review {
	reviews := []model.Review{}
	list, ok := v.([]interface{})
	if !ok {
		return reviews
	}
	for _, item := range list {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		var r model.Review
		if decode(obj, &r) != nil {
			continue
		}
		r.Rating = clampRating(r.Rating)
		reviews = append(reviews, r)
	}
	return reviews
}

// License decodes license info from text or structure, defaulting to empty.
func License(v interface{}) model.LicenseInfo {
	var info model.LicenseInfo
	obj, ok := asObject(v)
	if !ok {
		return info
	}
	if err := decode(obj, &info); err != nil {
		return model.LicenseInfo{}
	}
	return info
}

func decode(input map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// asObject returns v as a JSON object, parsing it first when it is text.
func asObject(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case model.Document:
		return t, true
	case string:
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(t), &obj); err != nil || obj == nil {
			return nil, false
		}
		return obj, true
	}
	return nil, false
}

// objectList flattens the accepted list shapes into JSON objects.
func objectList(v interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	switch t := v.(type) {
	case nil:
	case string:
		var parsed interface{}
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return nil
		}
		return objectList(parsed)
	case []interface{}:
		for _, item := range t {
			if obj, ok := asObject(item); ok {
				out = append(out, obj)
			}
		}
	default:
		if obj, ok := asObject(t); ok {
			out = append(out, obj)
		}
	}
	return out
}

func without(doc map[string]interface{}, keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func clampRating(r int) int {
	return max(0, min(5, r))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
