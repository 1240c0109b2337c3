package email

const (
	subjectMentorWelcome    = "Bienvenue sur EPROFOS"
	subjectVerification     = "Vérifiez votre adresse e-mail"
	subjectPasswordReset    = "Réinitialisation de votre mot de passe"
	subjectTeacherWelcome   = "Bienvenue dans l'équipe pédagogique EPROFOS"
	subjectAccountActivated = "Votre compte a été activé"
	subjectAccountDisabled  = "Votre compte a été désactivé"
	subjectFollowUpFmt      = "Relance prospect : %s"
)
