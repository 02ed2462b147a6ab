package questions

// Seed is the built-in film quote catalog.
var Seed = Catalog{
	{ID: "q1", Film: "Le Roi Lion", Quote: "Hakuna Matata !"},
	{ID: "q2", Film: "Le Monde de Nemo", Quote: "Continue de nager."},
	{ID: "q3", Film: "Toy Story", Quote: "Vers l'infini et au-delà !"},
	{ID: "q4", Film: "Terrain d'Entente", Quote: "Tu me tues, Smalls !"},
	{ID: "q5", Film: "Titanic", Quote: "Je suis le roi du monde !"},
	{ID: "q6", Film: "Star Wars", Quote: "Ne me dites jamais les probabilités."},
	{ID: "q7", Film: "Là-Haut", Quote: "L'aventure est là-bas !"},
	{ID: "q8", Film: "Jurassic Park", Quote: "La vie trouve toujours un chemin."},
	{ID: "q9", Film: "Retour vers le Futur", Quote: "Nom de Zeus !"},
	{ID: "q10", Film: "Top Gun", Quote: "J'ai besoin de vitesse."},
	{ID: "q11", Film: "Les Tortues Ninja", Quote: "Cowabunga !"},
	{ID: "q12", Film: "Batman", Quote: "Pourquoi si sérieux ?"},
	{ID: "q13", Film: "Terminator", Quote: "Je reviendrai."},
	{ID: "q14", Film: "Harry Potter à l'École des Sorciers", Quote: "Tu es un sorcier, Harry."},
	{ID: "q15", Film: "Beetlejuice", Quote: "C'est l'heure du spectacle !"},
	{ID: "q16", Film: "Frankenstein", Quote: "Il est vivant !"},
	{ID: "q17", Film: "Les Gardiens de la Galaxie", Quote: "Je s'appelle Groot."},
	{ID: "q18", Film: "Black Panther", Quote: "Wakanda pour toujours !"},
	{ID: "q19", Film: "Macadam Cowboy", Quote: "Je marche ici !"},
	{ID: "q20", Film: "Jerry Maguire", Quote: "Montre-moi l'argent !"},
	{ID: "q21", Film: "Shining", Quote: "Me voilà !"},
	{ID: "q22", Film: "Wayne's World", Quote: "La fête continue, Wayne !"},
	{ID: "q23", Film: "Scarface", Quote: "Dis bonjour à mon petit ami !"},
	{ID: "q24", Film: "Iron Man", Quote: "Je suis Iron Man."},
	{ID: "q25", Film: "300", Quote: "C'est Sparte !"},
	{ID: "q26", Film: "Des Hommes d'Honneur", Quote: "Vous ne pouvez pas supporter la vérité !"},
	{ID: "q27", Film: "Star Wars", Quote: "Que la Force soit avec toi."},
	{ID: "q28", Film: "Quand Harry Rencontre Sally", Quote: "Je prendrai la même chose qu'elle."},
	{ID: "q29", Film: "Peter Pan", Quote: "Tous les enfants savent voler."},
}
