package game

// botNames is the pool bots draw display names from.
var botNames = []string{
	"Bumba", "nick26", "jjjjj", "Rigor", "meow", "cookie", "HAHA", "Meep", "paige", "tico",
	"Donald", "Wander", "Wormy", "Loser", "Miguel", "MAZORCA", "Otto the Otter", "Zombies32",
	"nom nom", "yum yum", "hi", "cuty", "mota", "MasterLeo", "ike", "Kyle", "YOLO",
	"ooooooh noo", "brynna", "ROOMBA", "Jay", "Christina", "fire", "lizabot", "Nub",
	"the master", "missdee", "Fuscao", "ouchie", "poma", "Said", "seek", "livia", "lol",
	"ant", "brett", "DOOM", "MustachioMan", "Layla", "anaconda", "gdf", "daplug", "fart",
	"HELLO", "master ov", "dangerous woman", "Kunshiwa", "tootie", "Jillian", "Peeps",
	"gage", "abel", "savage", "bob", "GOKU", "Quicksnake", "tee", "you", "Mister Snake",
	"tinySATAN", "maggie", "Jareds Box", "McDillius", "bubble buns", "mole", "Pope",
	"Zam", "Chameleon", "hero", "Alien",
}
