package tracker

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// The tracker's update endpoint has two incompatible payload shapes depending
// on server version. Newer servers model Status as a single-valued relation;
// older ones expect a flat attribute. We send the relation shape first and
// fall back to the attribute shape on HTTP 400 exactly once.

type updateAsset struct {
	XMLName    xml.Name          `xml:"Asset"`
	Relations  []updateRelation  `xml:"Relation,omitempty"`
	Attributes []updateAttribute `xml:"Attribute,omitempty"`
}

type updateRelation struct {
	Name   string       `xml:"name,attr"`
	Act    string       `xml:"act,attr,omitempty"`
	Assets []updateOref `xml:"Asset"`
}

type updateOref struct {
	IDRef string `xml:"idref,attr"`
	Act   string `xml:"act,attr,omitempty"`
}

type updateAttribute struct {
	Name  string `xml:"name,attr"`
	Act   string `xml:"act,attr"`
	Value string `xml:",chardata"`
}

// relationPayload sets Status via a single-valued relation and, when ownerID
// is present, adds (never replaces) the member as an Owners relation.
func relationPayload(statusID, ownerID string) ([]byte, error) {
	asset := updateAsset{
		Relations: []updateRelation{{
			Name:   "Status",
			Act:    "set",
			Assets: []updateOref{{IDRef: statusID}},
		}},
	}
	if ownerID != "" {
		asset.Relations = append(asset.Relations, updateRelation{
			Name:   "Owners",
			Assets: []updateOref{{IDRef: ownerID, Act: "add"}},
		})
	}
	return xml.Marshal(asset)
}

// attributePayload is the legacy flat shape: Status as a plain attribute.
func attributePayload(statusID, ownerID string) ([]byte, error) {
	asset := updateAsset{
		Attributes: []updateAttribute{{Name: "Status", Act: "set", Value: statusID}},
	}
	if ownerID != "" {
		asset.Relations = []updateRelation{{
			Name:   "Owners",
			Assets: []updateOref{{IDRef: ownerID, Act: "add"}},
		}}
	}
	return xml.Marshal(asset)
}

// UpdateStatus transitions a workitem to the given status, optionally adding
// an owner. ticketID is the full asset id ("Story:1042"); assetType selects
// the endpoint. Only a 400 on the first attempt triggers the fallback shape;
// any other failure, or a failure of the fallback, propagates as-is.
func (c *Client) UpdateStatus(ctx context.Context, ticketID, statusID string, assetType AssetType, ownerID string) error {
	path, err := updatePath(ticketID, assetType)
	if err != nil {
		return err
	}

	body, err := relationPayload(statusID, ownerID)
	if err != nil {
		return fmt.Errorf("encode status update: %w", err)
	}

	err = c.postXML(ctx, path, body)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return err
	}

	c.logger.Debug("status relation payload rejected, retrying flat shape",
		"ticket", ticketID, "status", statusID)

	body, err = attributePayload(statusID, ownerID)
	if err != nil {
		return fmt.Errorf("encode status update: %w", err)
	}
	return c.postXML(ctx, path, body)
}

// updatePath derives the data endpoint for a workitem. The path wants the
// numeric half of the asset id.
func updatePath(ticketID string, assetType AssetType) (string, error) {
	_, num, ok := strings.Cut(ticketID, ":")
	if !ok || num == "" {
		return "", fmt.Errorf("malformed asset id %q", ticketID)
	}
	kind := AssetStory
	if assetType == AssetDefect {
		kind = AssetDefect
	}
	return fmt.Sprintf("/rest-1.v1/Data/%s/%s", kind, num), nil
}
