// Package group keeps the leader/member relation between shapes.
//
// A leader's transform and selection imply the same action on its members.
// The relation is stored as given: a leader may appear in its own member
// list, a member may be listed twice and a shape may belong to several
// groups. None of these are rejected.
package group

import "slices"

// Notifier receives group changes that must reach peers.
type Notifier interface {
	GroupLeaderSet(leader string, members []string)
	GroupMemberAdd(leader, member string)
}

// Groups maps a leader uuid to its ordered member uuids.
//
// Not safe for concurrent use; it is owned by the scene store.
type Groups struct {
	members  map[string][]string
	leaders  []string // in order of first use
	notifier Notifier
}

// New creates an empty relation. notifier may be nil, in which case no
// change is ever sent.
func New(notifier Notifier) *Groups {
	return &Groups{
		members:  make(map[string][]string),
		notifier: notifier,
	}
}

// SetGroupLeader replaces the whole member list of leader. When sync is set
// peers receive the full new list.
func (g *Groups) SetGroupLeader(leader string, members []string, sync bool) {
	g.track(leader)
	g.members[leader] = append([]string(nil), members...)
	if sync && g.notifier != nil {
		g.notifier.GroupLeaderSet(leader, g.Members(leader))
	}
}

// AddGroupMember appends member to leader's list. When sync is set peers
// receive only the added member.
func (g *Groups) AddGroupMember(leader, member string, sync bool) {
	g.track(leader)
	g.members[leader] = append(g.members[leader], member)
	if sync && g.notifier != nil {
		g.notifier.GroupMemberAdd(leader, member)
	}
}

// Members returns a copy of leader's member list.
func (g *Groups) Members(leader string) []string {
	return append([]string(nil), g.members[leader]...)
}

// IsLeader reports whether uuid leads a group.
func (g *Groups) IsLeader(uuid string) bool {
	_, ok := g.members[uuid]
	return ok
}

// LeaderOf returns the leader listing member. A shape listed in several
// groups resolves to the leader that was set up first.
func (g *Groups) LeaderOf(member string) (string, bool) {
	for _, leader := range g.leaders {
		if slices.Contains(g.members[leader], member) {
			return leader, true
		}
	}
	return "", false
}

func (g *Groups) track(leader string) {
	if _, ok := g.members[leader]; !ok {
		g.leaders = append(g.leaders, leader)
	}
}

// Forget drops uuid as a leader and from every member list. It is local
// bookkeeping for removed shapes and is never sent.
func (g *Groups) Forget(uuid string) {
	delete(g.members, uuid)
	g.leaders = slices.DeleteFunc(g.leaders, func(l string) bool { return l == uuid })
	for leader, members := range g.members {
		kept := members[:0]
		for _, m := range members {
			if m != uuid {
				kept = append(kept, m)
			}
		}
		g.members[leader] = kept
	}
}

// Len returns the number of leaders.
func (g *Groups) Len() int {
	return len(g.members)
}

// Clear drops every group.
func (g *Groups) Clear() {
	g.members = make(map[string][]string)
	g.leaders = nil
}
