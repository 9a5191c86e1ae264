package tracker

import (
	"fmt"
	"strings"
)

// stringAttr returns the string form of a named attribute, or "" if the
// attribute is absent or not a scalar.
func (a RawAsset) stringAttr(name string) string {
	attr, ok := a.Attributes[name]
	if !ok || attr.Value == nil {
		return ""
	}
	switch v := attr.Value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}

func (a RawAsset) intAttr(name string) int {
	attr, ok := a.Attributes[name]
	if !ok {
		return 0
	}
	if f, ok := attr.Value.(float64); ok {
		return int(f)
	}
	return 0
}

// assetKind returns the type half of an asset id ("Story:1042" -> "Story").
func assetKind(id string) string {
	kind, _, _ := strings.Cut(id, ":")
	return kind
}

// MapTicket converts a raw workitem asset into a TicketData snapshot.
// Number is the one attribute a ticket is useless without; its absence is a
// decode failure rather than a silent default.
func MapTicket(a RawAsset, instanceURL string) (TicketData, error) {
	number := a.stringAttr("Number")
	if number == "" {
		return TicketData{}, &DecodeError{AssetID: a.ID, Field: "Number"}
	}

	assetType := AssetStory
	if assetKind(a.ID) == string(AssetDefect) {
		assetType = AssetDefect
	}

	return TicketData{
		Label:       a.stringAttr("Name"),
		Number:      number,
		AssetID:     a.ID,
		Status:      a.stringAttr("Status.Name"),
		Project:     a.stringAttr("Scope.Name"),
		URL:         ticketURL(instanceURL, a),
		AssetType:   assetType,
		Description: a.stringAttr("Description"),
	}, nil
}

// ticketURL prefers the href reported by the tracker, falling back to the
// conventional assetdetail page.
func ticketURL(instanceURL string, a RawAsset) string {
	if a.Href != "" {
		return strings.TrimSuffix(instanceURL, "/") + a.Href
	}
	return fmt.Sprintf("%s/assetdetail.v1?Number=%s",
		strings.TrimSuffix(instanceURL, "/"), a.stringAttr("Number"))
}

// MapStatus converts a raw status asset into a StatusInfo.
func MapStatus(a RawAsset) (StatusInfo, error) {
	name := a.stringAttr("Name")
	if name == "" {
		return StatusInfo{}, &DecodeError{AssetID: a.ID, Field: "Name"}
	}
	return StatusInfo{
		ID:        a.ID,
		Name:      name,
		Order:     a.intAttr("Order"),
		ColorName: a.stringAttr("Color"),
	}, nil
}

// MapMember converts a raw member asset into a MemberInfo.
func MapMember(a RawAsset) (MemberInfo, error) {
	name := a.stringAttr("Name")
	if name == "" {
		return MemberInfo{}, &DecodeError{AssetID: a.ID, Field: "Name"}
	}
	return MemberInfo{
		ID:       a.ID,
		Name:     name,
		Username: a.stringAttr("Username"),
	}, nil
}

// MapTeam converts a raw team asset into a TeamInfo.
func MapTeam(a RawAsset) (TeamInfo, error) {
	name := a.stringAttr("Name")
	if name == "" {
		return TeamInfo{}, &DecodeError{AssetID: a.ID, Field: "Name"}
	}
	return TeamInfo{ID: a.ID, Name: name}, nil
}
