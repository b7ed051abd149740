package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password" json:"-"`
	Phone            string             `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth      *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender           string             `bson:"gender" json:"gender"` // "female", "male", "other"
	Address          string             `bson:"address,omitempty" json:"address,omitempty"`
	Bio              string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePicture   string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Role             string             `bson:"role" json:"role"`
	PregnancyDetails PregnancyDetails   `bson:"pregnancyDetails" json:"pregnancyDetails"`
	HealthInfo       HealthInfo         `bson:"healthInfo" json:"healthInfo"`
	Notifications    Notifications      `bson:"notifications" json:"notifications"`
	Preferences      Preferences        `bson:"preferences" json:"preferences"`
	WeightHistory    []WeightEntry      `bson:"weightHistory" json:"weightHistory"`
	ResetCodeHash    string             `bson:"resetCodeHash,omitempty" json:"-"`
	ResetCodeExpiry  *time.Time         `bson:"resetCodeExpireAt,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PregnancyDetails struct {
	DueDate          *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	WeeksPregnant    int                `bson:"weeksPregnant,omitempty" json:"weeksPregnant,omitempty"`
	Trimester        string             `bson:"trimester,omitempty" json:"trimester,omitempty"`
	PregnancyHistory []PregnancyOutcome `bson:"pregnancyHistory,omitempty" json:"pregnancyHistory,omitempty"`
}

type PregnancyOutcome struct {
	Year    int    `bson:"year" json:"year"`
	Outcome string `bson:"outcome" json:"outcome"`
	Details string `bson:"details,omitempty" json:"details,omitempty"`
}

type HealthInfo struct {
	BloodType     string   `bson:"bloodType,omitempty" json:"bloodType,omitempty"`
	Allergies     []string `bson:"allergies,omitempty" json:"allergies,omitempty"`
	Medications   []string `bson:"medications,omitempty" json:"medications,omitempty"`
	Conditions    []string `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Calories      int      `bson:"calories,omitempty" json:"calories,omitempty"`
	Weight        float64  `bson:"weight,omitempty" json:"weight,omitempty"`
	Height        float64  `bson:"height,omitempty" json:"height,omitempty"`
	Age           int      `bson:"age,omitempty" json:"age,omitempty"`
	ActivityLevel string   `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"`
	IsPregnant    bool     `bson:"isPregnant" json:"isPregnant"`
	Trimester     string   `bson:"trimester,omitempty" json:"trimester,omitempty"`
}

type Notifications struct {
	Email bool `bson:"email" json:"email"`
	Push  bool `bson:"push" json:"push"`
	SMS   bool `bson:"sms" json:"sms"`
}

type Preferences struct {
	Language string `bson:"language" json:"language"`
	Theme    string `bson:"theme" json:"theme"`
	Units    string `bson:"units" json:"units"` // "Imperial" or "Metric"
}

type WeightEntry struct {
	Weight float64   `bson:"weight" json:"weight"`
	Date   time.Time `bson:"date" json:"date"`
}

// NewUser returns a user with the schema defaults applied.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Email:         email,
		Password:      passwordHash,
		Gender:        "female",
		Role:          RoleUser,
		Notifications: Notifications{Email: true, Push: true, SMS: false},
		Preferences:   Preferences{Language: "English", Theme: "Light", Units: "Imperial"},
		WeightHistory: []WeightEntry{},
	}
}

// LatestWeight returns the most recently logged weight, or 0.
func (u *User) LatestWeight() float64 {
	if len(u.WeightHistory) == 0 {
		return 0
	}
	return u.WeightHistory[len(u.WeightHistory)-1].Weight
}

// LogWeight appends an entry; the history stays in insertion order.
func (u *User) LogWeight(weight float64, at time.Time) WeightEntry {
	entry := WeightEntry{Weight: weight, Date: at}
	u.WeightHistory = append(u.WeightHistory, entry)
	return entry
}

// SetResetCode stores a hashed one-time code valid until expiry.
func (u *User) SetResetCode(hash string, expiry time.Time) {
	u.ResetCodeHash = hash
	u.ResetCodeExpiry = &expiry
}

func (u *User) ClearResetCode() {
	u.ResetCodeHash = ""
	u.ResetCodeExpiry = nil
}
