package chat

type nutritionFact struct {
	food string
	fact string
}

// nutritionFacts is checked in order; the first food that matches wins.
var nutritionFacts = []nutritionFact{
	{"apple", "I love apples! They have about 95 calories and are packed with fiber and vitamin C. They make for a perfect snack that keeps you energized throughout the day!"},
	{"banana", "Bananas are amazing! A medium one has around 105 calories and is full of potassium that helps your muscles. They're nature's perfect on-the-go snack!"},
	{"bread", "Bread is a staple in many homes! A slice of white bread has about 80 calories. If you can, try whole grain bread - it has similar calories but more fiber and nutrients to keep you feeling fuller longer!"},
	{"rice", "Rice is wonderful! A cup of cooked white rice contains about 200 calories. Brown rice has slightly fewer calories and more fiber - both are great options depending on what you're cooking!"},
	{"chicken", "Chicken is super versatile! A 3.5oz serving of chicken breast has about 165 calories and is packed with protein. It's great for building muscle and keeping you satisfied!"},
	{"egg", "Eggs are nutritional powerhouses! One large egg has just about 70 calories with 6g of high-quality protein. They're perfect for breakfast or adding protein to any meal!"},
	{"milk", "Milk is so nourishing! A cup of whole milk has about 150 calories, while skim milk has about 80. Both are excellent sources of calcium for strong bones!"},
	{"pizza", "Pizza can definitely be part of a balanced diet! A slice typically has about 250-300 calories. Enjoy it with a side salad for a more balanced meal!"},
	{"pasta", "Pasta is delicious and satisfying! One cup of cooked pasta contains about 200 calories. Try whole grain varieties for extra fiber and nutrients!"},
	{"chocolate", "A little chocolate is good for the soul! A 1.5oz bar of milk chocolate has about 235 calories. Dark chocolate has less sugar and more antioxidants if you're looking for a healthier option!"},
	{"potato", "Potatoes are incredibly versatile! A medium baked potato has about 160 calories and is a great source of potassium and vitamin C. They're perfect with healthy toppings!"},
	{"carrot", "Carrots are crunchy and nutritious! A medium carrot has just about 25 calories and tons of vitamin A for healthy eyes. They make a perfect snack!"},
	{"orange", "Oranges are refreshing! A medium orange has about 60 calories and is bursting with vitamin C. They're perfect for boosting your immune system!"},
	{"steak", "Steak can be a nutritious choice! A 3.5oz serving of lean beef steak has about 180 calories and is rich in protein and iron. It's great for maintaining energy levels!"},
	{"salmon", "Salmon is fantastic for heart health! A 3.5oz serving contains about 200 calories and is loaded with omega-3 fatty acids. It's one of the healthiest proteins you can eat!"},
}

type topic struct {
	keywords []string
	text     string
}

var topics = []topic{
	{[]string{"calorie"}, "Calories are basically your body's fuel! Most adults need around 2000-2500 calories daily, but it varies based on your age, size, and how active you are. What matters most is getting those calories from nutritious foods that make you feel great!"},
	{[]string{"protein"}, "Protein is amazing for your body! It helps build muscle and keeps you feeling full. You can find it in foods like meat, eggs, beans, and nuts. Most people need about 0.8g per kg of body weight daily. What are your favorite protein-rich foods?"},
	{[]string{"carb"}, "Carbs are your body's favorite energy source! Complex carbs like whole grains and vegetables give you longer-lasting energy than simple carbs like sugar. They should make up about 45-65% of what you eat. What kind of carbs do you enjoy most?"},
	{[]string{"fat"}, "Healthy fats are essential for your brain and hormones! You can find them in foods like avocados, nuts, olive oil, and fish. They should make up about 20-35% of your daily calories. These are the fats that actually keep your body happy and healthy!"},
	{[]string{"vitamin"}, "Vitamins are like little health superheroes in your food! They come mostly from colorful fruits and vegetables. Each vitamin has a special job - like keeping your skin glowing, your eyes sharp, or your immune system strong. What fruits and veggies do you enjoy?"},
	{[]string{"mineral"}, "Minerals are essential nutrients your body needs! Things like calcium for strong bones, iron for healthy blood, and potassium for heart health. You can get them from a variety of foods like dairy, meat, fruits, and whole grains. Is there a specific mineral you'd like to learn more about?"},
	{[]string{"diet", "weight loss"}, "The best approach to healthy eating is finding what works for YOU! Focus on adding nutritious foods you enjoy rather than strict rules. Small, consistent changes and staying active tend to work better than drastic diets. What kind of healthy foods do you already enjoy?"},
}

const defaultAnswer = "I don't have specific information about that food, but I'd love to help you learn more! Generally, a balanced diet includes lots of colorful fruits and vegetables, whole grains, lean proteins, and healthy fats. Is there a specific food you're curious about? I know quite a bit about common foods like apples, bread, chicken, and rice!"

const emptyListAnswer = "It looks like your grocery list is empty at the moment. Feel free to add some items from the main page whenever you're ready!"

var listKeywords = []string{"list", "grocery", "groceries", "shopping"}
