package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CallJournal records calls made to several mocks, in order.
type CallJournal struct {
	lock  sync.Mutex
	calls []string
}

func (j *CallJournal) Record(call string) {
	if j == nil {
		return
	}

	j.lock.Lock()
	defer j.lock.Unlock()

	j.calls = append(j.calls, call)
}

func (j *CallJournal) Calls() []string {
	j.lock.Lock()
	defer j.lock.Unlock()

	return append([]string(nil), j.calls...)
}

type RemoteBookingMock struct {
	mock sync.Mutex

	Name    string
	Journal *CallJournal

	// NextID is the id assigned to the next created booking.
	NextID    int64
	CreateErr error
	DeleteErr error

	Bookings  map[int64]RemoteBooking
	Cancelled []int64
}

func (c *RemoteBookingMock) Create(ctx context.Context, customerID, resourceID int64, date time.Time) (int64, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.Journal.Record(c.Name + ".create")

	if c.CreateErr != nil {
		return 0, c.CreateErr
	}

	if c.Bookings == nil {
		c.Bookings = make(map[int64]RemoteBooking)
	}
	if c.NextID == 0 {
		c.NextID = 1
	}

	id := c.NextID
	c.NextID++

	c.Bookings[id] = RemoteBooking{
		ID:         id,
		CustomerID: customerID,
		ResourceID: resourceID,
		Date:       date,
	}

	return id, nil
}

func (c *RemoteBookingMock) Delete(ctx context.Context, bookingID int64) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.Journal.Record(fmt.Sprintf("%s.delete(%d)", c.Name, bookingID))

	if c.DeleteErr != nil {
		return c.DeleteErr
	}

	delete(c.Bookings, bookingID)
	c.Cancelled = append(c.Cancelled, bookingID)

	return nil
}

// SetErrors changes the errors returned by the next calls.
func (c *RemoteBookingMock) SetErrors(createErr, deleteErr error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.CreateErr = createErr
	c.DeleteErr = deleteErr
}
