package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PartyVotes is one ledger row as served for a district.
type PartyVotes struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type District struct {
	ID    string
	Seats int
	Votes []PartyVotes
}

// Total is the sum of all counts.
func (d District) Total() int {
	t := 0
	for _, v := range d.Votes {
		t += v.Count
	}
	return t
}

type districtResponse struct {
	Status string `json:"status"`
	Data   struct {
		Info struct {
			Seats flexInt `json:"Seats"`
		} `json:"info"`
		Votes voteList `json:"votes"`
	} `json:"data"`
}

// flexInt accepts a JSON number or a numeric string. Absent stays unset.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(unq)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("seats %q: %w", s, err)
	}
	f.Value = int(math.Round(v))
	f.Set = true
	return nil
}

// voteList accepts either a list of {id,name,count} or a party->count
// object. Object keys keep their document order and double as names.
type voteList []PartyVotes

func (l *voteList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	switch b[0] {
	case '[':
		var rows []struct {
			ID    string  `json:"id"`
			Name  string  `json:"name"`
			Count float64 `json:"count"`
		}
		if err := json.Unmarshal(b, &rows); err != nil {
			return err
		}
		out := make(voteList, 0, len(rows))
		for _, r := range rows {
			name := r.Name
			if name == "" {
				name = r.ID
			}
			out = append(out, PartyVotes{ID: r.ID, Name: name, Count: int(math.Round(r.Count))})
		}
		*l = out
		return nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(b))
		if _, err := dec.Token(); err != nil {
			return err
		}
		var out voteList
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			var count float64
			if err := dec.Decode(&count); err != nil {
				return fmt.Errorf("votes[%s]: %w", key, err)
			}
			out = append(out, PartyVotes{ID: key, Name: key, Count: int(math.Round(count))})
		}
		*l = out
		return nil
	}
	return fmt.Errorf("votes: unexpected %q", b[:1])
}

// District fetches one district's seat count and vote ledger. A missing seat
// value defaults to 1.
func (c *Client) District(ctx context.Context, id string) (District, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/district/"+url.PathEscape(id), nil)
	if err != nil {
		return District{}, err
	}
	var resp districtResponse
	if err := c.send(req, &resp); err != nil {
		return District{}, err
	}
	if resp.Status != "success" {
		msg := resp.Status
		if msg == "" {
			msg = "missing status"
		}
		return District{}, &Error{Status: http.StatusOK, Message: msg, RequestID: req.Header.Get(RequestIDHeader)}
	}

	d := District{ID: id, Seats: 1, Votes: []PartyVotes(resp.Data.Votes)}
	if resp.Data.Info.Seats.Set {
		d.Seats = resp.Data.Info.Seats.Value
	}
	return d, nil
}

// UpdateRequest replaces a district's seat count and vote ledger.
type UpdateRequest struct {
	DistrictID string         `json:"district_id"`
	Seats      int            `json:"seats"`
	Votes      map[string]int `json:"votes"`
}

func (c *Client) UpdateDistrict(ctx context.Context, r UpdateRequest) error {
	return c.postJSON(ctx, "/api/district/update", r)
}

// SwingRequest shifts one party's share by Percent points across every
// listed district. It is sent as one unit.
type SwingRequest struct {
	DistrictIDs []string `json:"district_ids"`
	PartyID     string   `json:"party_id"`
	Percent     float64  `json:"percent"`
	LockTotal   bool     `json:"lock_total"`
}

func (c *Client) BatchSwing(ctx context.Context, r SwingRequest) error {
	return c.postJSON(ctx, "/api/batch/swing", r)
}
