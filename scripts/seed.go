package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"lms/config"
	"lms/database"
	"lms/models"
)

// Seeds a demo instructor with a published course, plus a demo student.
// Run with: go run ./scripts
func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	instructor := models.User{
		Name:     "Demo Instructor",
		Email:    "instructor@lms.local",
		Password: string(hashed),
		Role:     models.RoleInstructor,
		Status:   models.UserApproved,
	}
	if err := db.Where("email = ?", instructor.Email).FirstOrCreate(&instructor).Error; err != nil {
		log.Fatalf("Failed to seed instructor: %v", err)
	}

	student := models.User{
		Name:     "Demo Student",
		Email:    "student@lms.local",
		Password: string(hashed),
		Role:     models.RoleStudent,
		Status:   models.UserApproved,
	}
	if err := db.Where("email = ?", student.Email).FirstOrCreate(&student).Error; err != nil {
		log.Fatalf("Failed to seed student: %v", err)
	}

	course := models.Course{
		Title:        "Introduction to Go",
		Intro:        "A hands-on tour of the Go programming language.",
		Description:  "Syntax, tooling, concurrency and the standard library, one module at a time.",
		InstructorID: instructor.ID,
		Status:       models.CoursePublished,
		IsActive:     true,
	}
	if err := db.Where("title = ? AND instructor_id = ?", course.Title, instructor.ID).FirstOrCreate(&course).Error; err != nil {
		log.Fatalf("Failed to seed course: %v", err)
	}

	titles := []string{"Getting Started", "Types and Functions", "Concurrency", "The Standard Library"}
	for i, title := range titles {
		module := models.Module{
			CourseID:   course.ID,
			Title:      title,
			OrderIndex: i,
		}
		if err := db.Where("course_id = ? AND title = ?", course.ID, title).FirstOrCreate(&module).Error; err != nil {
			log.Fatalf("Failed to seed module %q: %v", title, err)
		}
	}

	log.Printf("Seeded course %q with %d modules", course.Title, len(titles))
}
