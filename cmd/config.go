package cmd

type Config struct {
	HTTPPort       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	JWTSecret      string
	UploadsDir     string
	DigestSchedule string
	AdminUsername  string
	AdminPassword  string
}
