package tracker

import (
	"context"
	"fmt"
	"sort"
)

var ticketSelect = []string{"Name", "Number", "Status.Name", "Scope.Name", "Description"}

// TicketsForMember fetches open stories and defects owned by a member.
func (c *Client) TicketsForMember(ctx context.Context, memberID string) ([]TicketData, error) {
	where := fmt.Sprintf("Owners.ID='%s';AssetState!='Dead'", memberID)
	return c.fetchTickets(ctx, where)
}

// TicketsForTeam fetches open stories and defects belonging to a team.
func (c *Client) TicketsForTeam(ctx context.Context, teamID string) ([]TicketData, error) {
	where := fmt.Sprintf("Team.ID='%s';AssetState!='Dead'", teamID)
	return c.fetchTickets(ctx, where)
}

// fetchTickets queries both workitem types and maps them. Assets that fail to
// decode are skipped and logged; a fetch never silently invents tickets.
func (c *Client) fetchTickets(ctx context.Context, where string) ([]TicketData, error) {
	var tickets []TicketData
	for _, assetType := range []AssetType{AssetStory, AssetDefect} {
		assets, err := c.QueryAssets(ctx, Query{
			AssetType: string(assetType),
			Where:     where,
			Select:    ticketSelect,
			Sort:      "Order",
		})
		if err != nil {
			return nil, err
		}
		for _, a := range assets {
			t, err := MapTicket(a, c.baseURL)
			if err != nil {
				c.logger.Warn("skipping undecodable asset", "asset", a.ID, "err", err)
				continue
			}
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

// StatusesForTeam fetches the workflow statuses scoped to a team, ordered by
// the tracker's display order.
func (c *Client) StatusesForTeam(ctx context.Context, teamID string) ([]StatusInfo, error) {
	assets, err := c.QueryAssets(ctx, Query{
		AssetType: "StoryStatus",
		Where:     fmt.Sprintf("Team.ID='%s'", teamID),
		Select:    []string{"Name", "Order", "Color"},
		Sort:      "Order",
	})
	if err != nil {
		return nil, err
	}
	statuses := make([]StatusInfo, 0, len(assets))
	for _, a := range assets {
		s, err := MapStatus(a)
		if err != nil {
			c.logger.Warn("skipping undecodable status", "asset", a.ID, "err", err)
			continue
		}
		statuses = append(statuses, s)
	}
	sort.SliceStable(statuses, func(i, j int) bool { return statuses[i].Order < statuses[j].Order })
	return statuses, nil
}

// Members fetches the member directory, alphabetized by name.
func (c *Client) Members(ctx context.Context) ([]MemberInfo, error) {
	assets, err := c.QueryAssets(ctx, Query{
		AssetType: "Member",
		Where:     "AssetState!='Dead'",
		Select:    []string{"Name", "Username"},
		Sort:      "Name",
	})
	if err != nil {
		return nil, err
	}
	members := make([]MemberInfo, 0, len(assets))
	for _, a := range assets {
		m, err := MapMember(a)
		if err != nil {
			c.logger.Warn("skipping undecodable member", "asset", a.ID, "err", err)
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// Teams fetches the team directory, alphabetized by name.
func (c *Client) Teams(ctx context.Context) ([]TeamInfo, error) {
	assets, err := c.QueryAssets(ctx, Query{
		AssetType: "Team",
		Select:    []string{"Name"},
		Sort:      "Name",
	})
	if err != nil {
		return nil, err
	}
	teams := make([]TeamInfo, 0, len(assets))
	for _, a := range assets {
		t, err := MapTeam(a)
		if err != nil {
			c.logger.Warn("skipping undecodable team", "asset", a.ID, "err", err)
			continue
		}
		teams = append(teams, t)
	}
	return teams, nil
}
