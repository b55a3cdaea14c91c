package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jwalitptl/marketplace-admin/internal/model"
)

var errMalformedWindow = errors.New("malformed time window")

// Availability normalizes a weekly schedule given as JSON text or as a
// decoded object. Missing weekdays are unavailable with no windows. Any
// malformed input yields the all-unavailable week.
func Availability(v interface{}) model.Availability {
	data, ok := v.(map[string]interface{})
	if text, isText := v.(string); isText {
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			return model.UnavailableWeek()
		}
		ok = data != nil
	}
	if !ok {
		return model.UnavailableWeek()
	}

	week := model.UnavailableWeek()
	for _, day := range model.Weekdays {
		dayData, ok := data[day].(map[string]interface{})
		if !ok {
			continue
		}
		schedule := week.Day(day)
		schedule.IsAvailable = truthy(dayData["isAvailable"])

		windows, ok := dayData["timeWindows"].([]interface{})
		if !ok {
			continue
		}
		for _, w := range windows {
			tw, err := timeWindow(w)
			if err != nil {
				return model.UnavailableWeek()
			}
			schedule.TimeWindows = append(schedule.TimeWindows, tw)
		}
	}
	return week
}

// timeWindow accepts {start,end} text pairs and {hour,minute} endpoints.
// Windows without both endpoints become 00:00-00:00; a null start is
// malformed.
func timeWindow(v interface{}) (model.TimeWindow, error) {
	if v == nil {
		return model.TimeWindow{}, errMalformedWindow
	}
	w, ok := v.(map[string]interface{})
	if !ok {
		return model.TimeWindow{Start: "00:00", End: "00:00"}, nil
	}
	start, hasStart := w["start"]
	end, hasEnd := w["end"]
	if !hasStart || !hasEnd {
		return model.TimeWindow{Start: "00:00", End: "00:00"}, nil
	}
	if start == nil {
		return model.TimeWindow{}, errMalformedWindow
	}

	if startObj, ok := start.(map[string]interface{}); ok {
		if _, hasHour := startObj["hour"]; hasHour {
			s, err := clock(startObj)
			if err != nil {
				return model.TimeWindow{}, err
			}
			endObj, ok := end.(map[string]interface{})
			if !ok {
				return model.TimeWindow{}, errMalformedWindow
			}
			e, err := clock(endObj)
			if err != nil {
				return model.TimeWindow{}, err
			}
			return model.TimeWindow{Start: s, End: e}, nil
		}
	}
	return model.TimeWindow{Start: text(start), End: text(end)}, nil
}

// clock formats an {hour, minute} pair as zero-padded HH:MM.
func clock(v map[string]interface{}) (string, error) {
	h, err := pad2(v["hour"])
	if err != nil {
		return "", err
	}
	m, err := pad2(v["minute"])
	if err != nil {
		return "", err
	}
	return h + ":" + m, nil
}

func pad2(v interface{}) (string, error) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", errMalformedWindow
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			s = strconv.FormatInt(int64(t), 10)
		} else {
			s = strconv.FormatFloat(t, 'f', -1, 64)
		}
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case json.Number:
		s = t.String()
	case string:
		s = t
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", errMalformedWindow
	}
	if len(s) < 2 {
		s = strings.Repeat("0", 2-len(s)) + s
	}
	return s, nil
}

// text renders a passed-through endpoint. Structured values have no text form.
func text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil, map[string]interface{}, []interface{}:
		return "00:00"
	default:
		return fmt.Sprint(t)
	}
}

// truthy mirrors JSON value truthiness: false, 0, NaN, "" and null are false.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
