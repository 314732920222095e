package analytics

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/enrollment"
)

// RecentTransactions is how many paid enrollments an earnings report details.
const RecentTransactions = 10

type TeacherStats struct {
	TeacherID         primitive.ObjectID `json:"teacher_id"`
	TotalStudents     int                `json:"total_students"`
	TotalClasses      int64              `json:"total_classes"`
	TotalRevenue      float64            `json:"total_revenue"`
	AverageRating     float64            `json:"average_rating"`
	TotalReviews      int                `json:"total_reviews"`
	ClassesCompleted  int                `json:"classes_completed"`
	ActiveEnrollments int64              `json:"active_enrollments"`
	CourseViews       int                `json:"course_views"`
}

type StudentStats struct {
	StudentID                 primitive.ObjectID `json:"student_id"`
	TotalCoursesEnrolled      int64              `json:"total_courses_enrolled"`
	CoursesCompleted          int64              `json:"courses_completed"`
	TotalAssignmentsSubmitted int                `json:"total_assignments_submitted"`
	AverageScore              float64            `json:"average_score"`
	TotalHoursLearned         float64            `json:"total_hours_learned"`
	CertificatesEarned        int                `json:"certificates_earned"`
	CurrentStreak             int                `json:"current_streak"`
}

type Transaction struct {
	EnrollmentID primitive.ObjectID       `json:"enrollment_id"`
	ClassTitle   string                   `json:"class_title"`
	Amount       float64                  `json:"amount"`
	Date         time.Time                `json:"date"`
	Status       enrollment.PaymentStatus `json:"status"`
}

type Earnings struct {
	TotalEarnings     float64       `json:"total_earnings"`
	PlatformFee       float64       `json:"platform_fee"`
	NetEarnings       float64       `json:"net_earnings"`
	TotalTransactions int           `json:"total_transactions"`
	RecentEnrollments []Transaction `json:"recent_enrollments"`
}
