package command

import (
	"context"

	"dentistimo/internal/core/domain"
)

type MockOfficeRepository struct {
	offices      []domain.Office
	reservations []domain.Reservation
	err          error
}

func (m *MockOfficeRepository) FindAll(_ context.Context) ([]domain.Office, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.offices, nil
}

func (m *MockOfficeRepository) FindByID(_ context.Context, id int) ([]domain.Office, error) {
	if m.err != nil {
		return nil, m.err
	}

	matches := []domain.Office{}
	for _, office := range m.offices {
		if office.ID == id {
			matches = append(matches, office)
		}
	}
	return matches, nil
}

func (m *MockOfficeRepository) FindReservations(_ context.Context, officeID int) ([]domain.Reservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reservations, nil
}

func (m *MockOfficeRepository) ReplaceAll(_ context.Context, offices []domain.Office) error {
	if m.err != nil {
		return m.err
	}
	m.offices = offices
	return nil
}

type publishRecord struct {
	topic   string
	payload []byte
	qos     byte
}

type MockPublisher struct {
	published []publishRecord
	err       error
}

func (m *MockPublisher) Publish(_ context.Context, topic string, payload []byte, qos byte) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, publishRecord{topic: topic, payload: payload, qos: qos})
	return nil
}

// lastOn returns the most recent payload published to a topic.
func (m *MockPublisher) lastOn(topic string) ([]byte, bool) {
	for i := len(m.published) - 1; i >= 0; i-- {
		if m.published[i].topic == topic {
			return m.published[i].payload, true
		}
	}
	return nil, false
}

func testOffice() domain.Office {
	return domain.Office{
		ID:       42,
		Name:     "Tooth Fairy Inc",
		Owner:    "The Tooth Fairy",
		Dentists: 3,
		Address:  "Odontologgatan 32",
		City:     "Gothenburg",
		Coordinate: domain.Coordinate{
			Longitude: 11.969388,
			Latitude:  57.707619,
		},
		OpeningHours: map[string]string{
			"monday":    "9:00-17:00",
			"tuesday":   "8:00-17:00",
			"wednesday": "7:00-16:00",
			"thursday":  "9:00-17:00",
			"friday":    "9:00-15:00",
		},
	}
}
