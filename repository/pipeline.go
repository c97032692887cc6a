package repository

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Stage builders shared by the view pipelines.

func matchStage(filter bson.D) bson.D {
	return bson.D{{"$match", filter}}
}

// lookupStage joins foreignField == localField from another collection into as.
func lookupStage(from, localField, foreignField, as string) bson.D {
	return bson.D{{"$lookup", bson.D{
		{"from", from},
		{"localField", localField},
		{"foreignField", foreignField},
		{"as", as},
	}}}
}

// unwindStage flattens a joined array. Documents whose join matched nothing are dropped.
func unwindStage(field string) bson.D {
	return bson.D{{"$unwind", bson.D{
		{"path", "$" + field},
		{"preserveNullAndEmptyArrays", false},
	}}}
}

func sortStage(keys bson.D) bson.D {
	return bson.D{{"$sort", keys}}
}

func limitStage(n int64) bson.D {
	return bson.D{{"$limit", n}}
}

func projectStage(fields bson.D) bson.D {
	return bson.D{{"$project", fields}}
}

// fullNameExpr concatenates "<first> <last>" from a joined user document.
func fullNameExpr(userField string) bson.D {
	return bson.D{{"$concat", bson.A{
		bson.D{{"$ifNull", bson.A{"$" + userField + ".personal_info.first_name", ""}}},
		" ",
		bson.D{{"$ifNull", bson.A{"$" + userField + ".personal_info.last_name", ""}}},
	}}}
}
