package rooms

import (
	"cinequiz/internal/events"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestJoin_EmptyName(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"", "   ", "\t"} {
		if _, err := f.reg.Join("a", name); !errors.Is(err, ErrEmptyRoomName) {
			t.Errorf("Join(%q) err = %v, want ErrEmptyRoomName", name, err)
		}
	}
	if len(f.reg.List()) != 0 {
		t.Error("no room should be created")
	}
}

func TestJoin_FirstJoinerIsHost(t *testing.T) {
	f := newFixture(t)
	a := f.join(t, "a", "lobby")
	b := f.join(t, "b", "lobby")

	if !a.Host || b.Host {
		t.Errorf("host flags = %v, %v; want true, false", a.Host, b.Host)
	}
	if a.User != "Anon. a" {
		t.Errorf("User = %q, want %q", a.User, "Anon. a")
	}

	joined := f.emit.last(t, "b", events.RoomJoined).Data.(events.RoomJoinedPayload)
	if joined.RoomName != "lobby" {
		t.Errorf("room-joined RoomName = %q", joined.RoomName)
	}

	users := f.emit.last(t, "a", events.UsersList).Data.([]events.UserInfo)
	if len(users) != 2 || users[0].ID != "a" || users[1].ID != "b" {
		t.Errorf("users-list = %+v", users)
	}

	list := f.emit.last(t, "anyone", events.RoomsList).Data.([]events.RoomInfo)
	if len(list) != 1 || list[0].Name != "lobby" || list[0].NbUsers != 2 || list[0].MaxUsers != 5 {
		t.Errorf("rooms-list = %+v", list)
	}
}

func TestJoin_NameHint(t *testing.T) {
	f := newFixture(t)
	f.reg.Connect("conn-1", "  Alice  ")
	joined, err := f.reg.Join("conn-1", "lobby")
	if err != nil {
		t.Fatal(err)
	}
	if joined.User != "Alice" {
		t.Errorf("User = %q, want Alice", joined.User)
	}
}

func TestConnect_SendsRoomsList(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "lobby")
	f.emit.reset()

	f.reg.Connect("b", "")
	list := f.emit.last(t, "b", events.RoomsList).Data.([]events.RoomInfo)
	if len(list) != 1 {
		t.Errorf("rooms-list = %+v", list)
	}
}

func TestJoin_Capacity(t *testing.T) {
	f := newFixture(t)
	for i := range 5 {
		f.join(t, fmt.Sprintf("u%d", i), "lobby")
	}
	if _, err := f.reg.Join("u5", "lobby"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
	if f.reg.CurrentRoom("u5") != "" {
		t.Error("rejected user should not be tracked in the room")
	}
}

func TestJoin_ChatRoomCapacity(t *testing.T) {
	f := newFixture(t)
	for i := range 20 {
		f.join(t, fmt.Sprintf("u%d", i), "chat:general")
	}
	if _, err := f.reg.Join("u20", "chat:general"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
	if got := f.reg.List()[0].MaxUsers; got != 20 {
		t.Errorf("MaxUsers = %d, want 20", got)
	}
}

func TestJoin_SameRoomTwice(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "lobby")
	f.join(t, "a", "lobby")

	if got := f.reg.List()[0].NbUsers; got != 1 {
		t.Errorf("NbUsers = %d, want 1", got)
	}
}

func TestJoin_SwitchRoomsLeavesPrevious(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "one")
	f.join(t, "b", "one")
	f.join(t, "a", "two")

	if f.reg.CurrentRoom("a") != "two" {
		t.Errorf("CurrentRoom = %q, want two", f.reg.CurrentRoom("a"))
	}
	users := f.reg.Users("one")
	if len(users) != 1 || users[0].ID != "b" || !users[0].Host {
		t.Errorf("room one users = %+v", users)
	}
	if len(f.emit.received("b", events.HostPromoted)) != 1 {
		t.Error("b should be promoted in room one")
	}
}

func TestLeave_PromotesEarliestRemaining(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "lobby")
	f.join(t, "b", "lobby")
	f.join(t, "c", "lobby")
	f.emit.reset()

	f.reg.Leave("a", "lobby")

	if n := len(f.emit.received("b", events.HostPromoted)); n != 1 {
		t.Fatalf("b host-promoted events = %d, want 1", n)
	}
	if n := len(f.emit.received("c", events.HostPromoted)); n != 0 {
		t.Errorf("c host-promoted events = %d, want 0", n)
	}
	promoted := f.emit.last(t, "b", events.HostPromoted).Data.(events.HostPromotedPayload)
	if promoted.RoomName != "lobby" {
		t.Errorf("RoomName = %q", promoted.RoomName)
	}

	users := f.emit.last(t, "c", events.UsersList).Data.([]events.UserInfo)
	if hosts := hostsOf(users); len(hosts) != 1 || hosts[0] != "b" {
		t.Errorf("hosts = %v, want [b]", hosts)
	}
	if len(f.emit.received(everyone, events.RoomsList)) != 1 {
		t.Error("leave should broadcast rooms-list")
	}
}

func TestLeave_NonHostNoPromotion(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "lobby")
	f.join(t, "b", "lobby")
	f.emit.reset()

	f.reg.Leave("b", "lobby")

	if len(f.emit.received("a", events.HostPromoted)) != 0 {
		t.Error("no promotion expected")
	}
}

func TestLeave_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "lobby")
	f.join(t, "b", "lobby")

	f.reg.Leave("b", "other")
	if len(f.reg.Users("lobby")) != 2 {
		t.Fatal("leaving a room the user is not in must be a no-op")
	}

	f.reg.Leave("b", "lobby")
	f.reg.Leave("b", "lobby")
	f.reg.Disconnect("b")
	f.reg.Disconnect("ghost")

	if len(f.reg.Users("lobby")) != 1 {
		t.Errorf("users = %d, want 1", len(f.reg.Users("lobby")))
	}
}

func TestEmptyRoomIsDeletedAndRecreatedFresh(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "lobby")
	f.join(t, "b", "lobby")

	f.reg.Disconnect("a")
	f.reg.Leave("b", "lobby")

	if len(f.reg.List()) != 0 {
		t.Fatalf("rooms = %+v, want none", f.reg.List())
	}
	last := f.emit.last(t, everyone, events.RoomsList).Data.([]events.RoomInfo)
	if len(last) != 0 {
		t.Errorf("last rooms-list = %+v, want empty", last)
	}
	if f.clock.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0 after room deletion", f.clock.Pending())
	}

	c := f.join(t, "c", "lobby")
	if !c.Host {
		t.Error("first joiner of recreated room should be host")
	}
}

func TestList_CreationOrder(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "zeta")
	f.join(t, "b", "alpha")
	f.join(t, "c", "mid")

	list := f.reg.List()
	if list[0].Name != "zeta" || list[1].Name != "alpha" || list[2].Name != "mid" {
		t.Errorf("order = %+v", list)
	}
}

func TestRoomNamesCaseSensitive(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "Lobby")
	f.join(t, "b", "lobby")
	if len(f.reg.List()) != 2 {
		t.Errorf("rooms = %d, want 2", len(f.reg.List()))
	}
}

func TestReminder(t *testing.T) {
	f := newFixture(t)
	f.join(t, "a", "lobby")
	f.emit.reset()

	f.clock.Advance(49 * time.Second)
	if len(f.emit.received("a", events.Message)) != 0 {
		t.Fatal("reminder fired early")
	}

	f.clock.Advance(time.Second)
	msg := f.emit.last(t, "a", events.Message).Data.(events.ChatMessage)
	if msg.User != ReminderUser || msg.Msg != ReminderText {
		t.Errorf("reminder = %+v", msg)
	}

	f.clock.Advance(50 * time.Second)
	if n := len(f.emit.received("a", events.Message)); n != 2 {
		t.Errorf("reminders = %d, want 2", n)
	}
}

func TestReminderDisabled(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.ReminderInterval = 0 })
	f.join(t, "a", "lobby")
	if f.clock.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", f.clock.Pending())
	}
}

func TestConcurrentJoinLeave(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("u%d", i)
			room := fmt.Sprintf("room%d", i%4)
			f.reg.Connect(id, "")
			f.reg.Join(id, room)
			f.reg.ToggleReady(id)
			if i%3 == 0 {
				f.reg.Disconnect(id)
			}
		}()
	}
	wg.Wait()

	for _, info := range f.reg.List() {
		users := f.reg.Users(info.Name)
		if len(users) != info.NbUsers {
			t.Errorf("%s: NbUsers = %d, users = %d", info.Name, info.NbUsers, len(users))
		}
		if len(users) > 5 {
			t.Errorf("%s over capacity: %d", info.Name, len(users))
		}
		if hosts := hostsOf(users); len(hosts) != 1 || hosts[0] != users[0].ID {
			t.Errorf("%s: hosts = %v, want earliest joiner %s", info.Name, hosts, users[0].ID)
		}
	}
}
