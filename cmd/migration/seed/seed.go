package seed

import (
	"fmt"
	"time"

	"cleanops/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

const seedSource = "seed"

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	facilities, err := seedFacilities(db, log)
	if err != nil {
		return err
	}

	staff, err := seedStaff(db, log)
	if err != nil {
		return err
	}

	if err := seedGroup(db, staff[:2], log); err != nil {
		return err
	}

	return seedReservations(db, facilities, time.Now().UTC(), log)
}

func seedFacilities(db *gorm.DB, log logger.Logger) ([]Facility, error) {
	facilities := []Facility{
		{Name: "Harbour View", FacilityGroup: "waterfront", MaxGuests: 4, Bedrooms: 2, IsActive: true},
		{Name: "Garden Suite", FacilityGroup: "city", MaxGuests: 2, Bedrooms: 1, IsActive: true},
		{Name: "Hilltop Villa", FacilityGroup: "hills", MaxGuests: 10, Bedrooms: 5, IsActive: true},
	}

	for i := range facilities {
		facility := &facilities[i]
		if err := db.Where("name = ?", facility.Name).FirstOrCreate(facility).Error; err != nil {
			return nil, log.Err("failed to create facility", err, "name", facility.Name)
		}
	}

	villa := facilities[2]
	settings := FacilityCleaningSettings{
		FacilityID:              villa.ID,
		StandardDurationMinutes: 180,
		PreferredStartTime:      "10:30",
		PreferredEndTime:        "14:30",
		Checklist: []ChecklistItem{
			{Name: "Beds", Required: true},
			{Name: "Pool deck", Required: false},
		},
		RequiredSupplies: []string{"linen", "pool chemicals"},
		AutoAssign:       true,
	}
	if err := db.Where("facility_id = ?", villa.ID).FirstOrCreate(&settings).Error; err != nil {
		return nil, log.Err("failed to create facility settings", err, "facility", villa.Name)
	}

	log.Info("Seeded facilities", "count", len(facilities))
	return facilities, nil
}

func seedStaff(db *gorm.DB, log logger.Logger) ([]Staff, error) {
	staff := []Staff{
		{Name: "Alice Moreau", SkillLevel: 5, CanDrive: true, HasCar: true, CanHandleLargeProperties: true},
		{Name: "Bruno Sato", SkillLevel: 3, CanDrive: true},
		{Name: "Chloe Park", SkillLevel: 2},
		{Name: "Dev Rana", SkillLevel: 1},
	}

	for i := range staff {
		member := &staff[i]
		member.IsActive = true
		member.RatePerProperty = DefaultStaffRate
		member.RatePerPropertyWithOption = DefaultStaffRateWithOption
		member.TransportationFee = decimal.NewFromInt(500)

		if err := db.Where("name = ?", member.Name).FirstOrCreate(member).Error; err != nil {
			return nil, log.Err("failed to create staff", err, "name", member.Name)
		}
	}

	log.Info("Seeded staff", "count", len(staff))
	return staff, nil
}

func seedGroup(db *gorm.DB, members []Staff, log logger.Logger) error {
	group := StaffGroup{
		Name:                        "Waterfront Crew",
		CanHandleLargeProperties:    true,
		CanHandleMultipleProperties: true,
		MaxPropertiesPerDay:         3,
		RatePerProperty:             DefaultGroupRate,
		RatePerPropertyWithOption:   DefaultGroupRateWithOption,
		TransportationFee:           decimal.NewFromInt(1000),
		IsActive:                    true,
	}
	if err := db.Omit("Members").Where("name = ?", group.Name).FirstOrCreate(&group).Error; err != nil {
		return log.Err("failed to create group", err, "name", group.Name)
	}

	for i, member := range members {
		membership := StaffGroupMember{
			GroupID:  group.ID,
			StaffID:  member.ID,
			IsLeader: i == 0,
		}
		err := db.Omit("Staff").
			Where("group_id = ? AND staff_id = ? AND left_date IS NULL", group.ID, member.ID).
			FirstOrCreate(&membership).Error
		if err != nil {
			return log.Err("failed to add group member", err, "group", group.Name, "staff", member.Name)
		}
	}

	log.Info("Seeded group", "name", group.Name, "members", len(members))
	return nil
}

// seedReservations staggers checkouts over the coming week so auto-create and
// auto-assign have work to do.
func seedReservations(db *gorm.DB, facilities []Facility, now time.Time, log logger.Logger) error {
	today := DateOf(now)

	count := 0
	for day := 1; day <= 7; day++ {
		facility := facilities[day%len(facilities)]
		checkout := today.AddDate(0, 0, day)
		reservation := Reservation{
			Source:       seedSource,
			ExternalID:   fmt.Sprintf("SEED-%s-%s", FormatDate(checkout), facility.Name),
			FacilityID:   &facility.ID,
			RoomType:     facility.Name,
			GuestName:    fmt.Sprintf("Guest %d", day),
			GuestCount:   min(day, facility.MaxGuests),
			CheckInDate:  checkout.AddDate(0, 0, -2),
			CheckOutDate: checkout,
		}

		err := db.Omit("Facility").
			Where("source = ? AND external_id = ?", reservation.Source, reservation.ExternalID).
			FirstOrCreate(&reservation).Error
		if err != nil {
			return log.Err("failed to create reservation", err, "externalID", reservation.ExternalID)
		}
		count++
	}

	log.Info("Seeded reservations", "count", count)
	return nil
}
